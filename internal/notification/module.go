package notification

import (
	"context"

	"github.com/shandysiswandi/otcgate/internal/notification/inbound"
	"github.com/shandysiswandi/otcgate/internal/notification/outbound/email"
	"github.com/shandysiswandi/otcgate/internal/notification/outbound/sms"
	"github.com/shandysiswandi/otcgate/internal/notification/usecase"
	"github.com/shandysiswandi/otcgate/internal/pkg/clock"
	"github.com/shandysiswandi/otcgate/internal/pkg/config"
	"github.com/shandysiswandi/otcgate/internal/pkg/goroutine"
	"github.com/shandysiswandi/otcgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otcgate/internal/pkg/mail"
	"github.com/shandysiswandi/otcgate/internal/pkg/messaging"
	pkgsms "github.com/shandysiswandi/otcgate/internal/pkg/sms"
	"github.com/shandysiswandi/otcgate/internal/pkg/uid"
	"github.com/shandysiswandi/otcgate/internal/pkg/validator"
)

type Dependency struct {
	Ctx        context.Context            `validate:"required"`
	Messaging  messaging.Messaging        `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	UUID       uid.StringID               `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Goroutine  *goroutine.Manager         `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
	Mail       mail.Mail                  `validate:"required"`
	SMS        pkgsms.SMS                 `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	uc := usecase.New(usecase.Dependency{
		RepoSMS:    sms.New(dep.SMS, dep.Instrument),
		RepoMail:   email.New(dep.Mail, dep.Instrument),
		Validator:  dep.Validator,
		Clock:      dep.Clock,
		Config:     dep.Config,
		Instrument: dep.Instrument,
	})

	inbound.RegisterMQConsumer(dep.Ctx, dep.Config, dep.Goroutine, dep.Messaging, dep.UUID, uc, dep.Instrument)

	return nil
}
