package services

import (
	"context"
	"fmt"
	"strings"

	"piercing-studio-site/models"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
)

type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// SMSNotifier texts the studio's front desk when a walk-in release form
// has been accepted.
type SMSNotifier struct {
	api    messageCreator
	from   string
	to     string
	logger *zap.Logger
}

func NewSMSNotifier(accountSid, authToken, from, to string, logger *zap.Logger) *SMSNotifier {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSid,
		Password: authToken,
	})
	return &SMSNotifier{api: client.Api, from: from, to: to, logger: logger}
}

func (n *SMSNotifier) ReleaseFormAccepted(_ context.Context, form models.ReleaseForm, result models.SubmitResult) {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(n.to)
	params.SetFrom(n.from)
	params.SetBody(releaseFormSMS(form, result))

	resp, err := n.api.CreateMessage(params)
	if err != nil {
		n.logger.Error("failed to send release form SMS", zap.String("to", n.to), zap.Error(err))
		return
	}
	if resp.Sid != nil {
		n.logger.Info("release form SMS sent", zap.String("sid", *resp.Sid))
	} else {
		n.logger.Info("release form SMS sent, but no SID returned")
	}
}

func releaseFormSMS(form models.ReleaseForm, result models.SubmitResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "New release form: %s %s", form.FirstName, form.LastName)
	fmt.Fprintf(&b, ", %s", form.PiercingType)
	for _, opt := range models.JewelryOptions {
		if opt.Value == form.JewelryChoice {
			fmt.Fprintf(&b, ", %s", opt.Label)
		}
	}
	if result.Pricing != nil {
		fmt.Fprintf(&b, ", $%s", models.FormatPrice(*result.Pricing))
	}
	if form.IsMinor {
		b.WriteString(" (minor, guardian required)")
	}
	return b.String()
}
