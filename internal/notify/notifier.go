package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/metalbaza/metalbaza-backend/pkg/config"
	"github.com/metalbaza/metalbaza-backend/pkg/db/models"
	"github.com/metalbaza/metalbaza-backend/pkg/logger"
	"github.com/metalbaza/metalbaza-backend/pkg/telegram"
)

const sendTimeout = 15 * time.Second

// Notifier pushes operational events to the configured Telegram admin chat.
// Delivery is best-effort: failures are logged, never surfaced to callers.
type Notifier struct {
	bot         *telegram.Bot
	adminChatID int64
	logger      *logger.Logger
}

// New builds a notifier. A nil bot or zero chat id yields a disabled notifier.
func New(bot *telegram.Bot, cfg config.TelegramConfig, logg *logger.Logger) *Notifier {
	return &Notifier{
		bot:         bot,
		adminChatID: cfg.AdminChatID,
		logger:      logg,
	}
}

func (n *Notifier) enabled() bool {
	return n != nil && n.bot != nil && n.adminChatID != 0
}

// OrderCreated announces a freshly materialized order. Called after the
// checkout transaction commits, on its own context so request cancellation
// does not drop the message.
func (n *Notifier) OrderCreated(ctx context.Context, order *models.Order, user *models.User) {
	if !n.enabled() {
		return
	}

	go func() {
		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sendTimeout)
		defer cancel()

		if err := n.bot.SendMessage(sendCtx, n.adminChatID, formatOrderMessage(order, user)); err != nil {
			n.logger.Error(n.logger.WithField(sendCtx, "order_id", order.ID.String()), "notify.order_created_failed", err)
		}
	}()
}

// WorkerApplicationCreated announces a new hiring request.
func (n *Notifier) WorkerApplicationCreated(ctx context.Context, application *models.WorkerApplication) {
	if !n.enabled() {
		return
	}

	go func() {
		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sendTimeout)
		defer cancel()

		text := fmt.Sprintf("🛠 <b>Yangi ariza</b>\nID: <code>%s</code>", application.ID)
		if err := n.bot.SendMessage(sendCtx, n.adminChatID, text); err != nil {
			n.logger.Error(n.logger.WithField(sendCtx, "application_id", application.ID.String()), "notify.application_failed", err)
		}
	}()
}

func formatOrderMessage(order *models.Order, user *models.User) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🧾 <b>Yangi buyurtma</b>\n")
	fmt.Fprintf(&b, "ID: <code>%s</code>\n", order.ID)
	if user != nil {
		fmt.Fprintf(&b, "Mijoz: %s %s (%s)\n", user.FirstName, user.LastName, user.Phone)
	}
	fmt.Fprintf(&b, "Summa: %s so'm\n", order.TotalAmount.StringFixed(2))
	if order.IsDelivery {
		fmt.Fprintf(&b, "Yetkazib berish: %s so'm\n", order.DeliveryAmount.StringFixed(2))
		if order.DeliveryAddress != nil {
			fmt.Fprintf(&b, "Manzil: %s\n", *order.DeliveryAddress)
		}
	}
	fmt.Fprintf(&b, "Pozitsiyalar: %d", len(order.Items))
	return b.String()
}
