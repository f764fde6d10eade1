package notify

import (
	"fmt"

	"github.com/smplat/fulfillment/internal/types"
)

// Rendered is the {subject, textBody, htmlBody} triple every
// render<Kind> function produces, per §4.10.
type Rendered struct {
	Subject  string
	TextBody string
	HTMLBody string
}

func renderPaymentSuccess(order *types.Order, payment *types.Payment) Rendered {
	amount := types.FormatAmount(payment.Amount, payment.Currency)
	subject := fmt.Sprintf("Payment received for order %s", order.OrderNumber)
	text := fmt.Sprintf("We received your payment of %s for order %s.", amount, order.OrderNumber)
	return Rendered{Subject: subject, TextBody: text, HTMLBody: "<p>" + text + "</p>"}
}

func renderOrderStatusUpdate(order *types.Order) Rendered {
	subject := fmt.Sprintf("Order %s is now %s", order.OrderNumber, order.Status)
	text := fmt.Sprintf("Your order %s status changed to %s.", order.OrderNumber, order.Status)
	return Rendered{Subject: subject, TextBody: text, HTMLBody: "<p>" + text + "</p>"}
}

func renderFulfillmentCompletion(order *types.Order) Rendered {
	subject := fmt.Sprintf("Order %s is complete", order.OrderNumber)
	text := fmt.Sprintf("All fulfillment tasks for order %s have completed.", order.OrderNumber)
	return Rendered{Subject: subject, TextBody: text, HTMLBody: "<p>" + text + "</p>"}
}

func renderFulfillmentRetry(task *types.FulfillmentTask, errorMessage string) Rendered {
	subject := fmt.Sprintf("Fulfillment task %s is retrying", task.TaskType)
	text := fmt.Sprintf("Task %s failed and will retry (attempt %d): %s", task.TaskType, task.RetryCount+1, errorMessage)
	return Rendered{Subject: subject, TextBody: text, HTMLBody: "<p>" + text + "</p>"}
}
