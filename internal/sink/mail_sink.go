package sink

import (
	"context"
	"fmt"
	"strings"

	"github.com/alvin669/prickleys-store/internal/domain"
	"github.com/wneessen/go-mail"
)

// MailSink emails each finished order to the operator mailbox.
type MailSink struct {
	client *mail.Client
	from   string
	to     string
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       string
}

func NewMailSink(cfg SMTPConfig) (*MailSink, error) {
	client, err := mail.NewClient(cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mail client: %w", err)
	}

	to := cfg.To
	if to == "" {
		to = DefaultDestination
	}

	return &MailSink{client: client, from: cfg.From, to: to}, nil
}

func (s *MailSink) Submit(ctx context.Context, order *domain.Order) error {
	msg := mail.NewMsg()

	if err := msg.From(s.from); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(s.to); err != nil {
		return fmt.Errorf("invalid destination address: %w", err)
	}
	msg.Subject(fmt.Sprintf("New order %s from %s", order.ID, order.Customer.Name))
	msg.SetBodyString(mail.TypeTextHTML, orderHTML(order))

	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send order mail: %w", err)
	}
	return nil
}

func orderHTML(order *domain.Order) string {
	var rows strings.Builder
	for _, item := range order.Items {
		rows.WriteString(fmt.Sprintf(`
			<tr>
				<td>%s</td>
				<td>%d</td>
				<td>KSh %.2f</td>
				<td>KSh %.2f</td>
			</tr>`, item.Product, item.Quantity, item.Price, item.Subtotal))
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif;">
	<h2>New order</h2>
	<p><strong>Name:</strong> %s<br>
	<strong>Email:</strong> %s<br>
	<strong>Phone:</strong> %s<br>
	<strong>Address:</strong> %s</p>
	<table border="1" cellpadding="6" style="border-collapse: collapse;">
		<thead>
			<tr><th>Product</th><th>Quantity</th><th>Unit price</th><th>Subtotal</th></tr>
		</thead>
		<tbody>%s
		</tbody>
		<tfoot>
			<tr><td colspan="3" align="right"><strong>Total:</strong></td><td><strong>KSh %.2f</strong></td></tr>
		</tfoot>
	</table>
	<p>Placed at %s</p>
</body>
</html>`,
		order.Customer.Name, order.Customer.Email, order.Customer.Phone, order.Customer.Address,
		rows.String(), order.Total, order.CreatedAt.Format("2006-01-02 15:04:05"))
}
