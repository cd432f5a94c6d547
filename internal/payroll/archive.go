package payroll

import (
	"context"
	"fmt"

	"uni-hris/internal/notification"
	"uni-hris/internal/payroll/export"
	"uni-hris/internal/shared/contextutil"
	"uni-hris/internal/storage"

	"go.uber.org/zap"
)

// Archiver renders a generated payslip to PDF, uploads it and tells the
// employee it is ready.
type Archiver struct {
	repo     Repository
	store    storage.Store
	notifier notification.Service
	opts     Options
	logger   *zap.Logger
}

func NewArchiver(
	repo Repository,
	store storage.Store,
	notifier notification.Service,
	opts Options,
	logger ...*zap.Logger,
) *Archiver {
	l := zap.L().Named("payroll.archiver")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payroll.archiver")
	}
	return &Archiver{
		repo:     repo,
		store:    store,
		notifier: notifier,
		opts:     opts,
		logger:   l,
	}
}

// Archive is safe to repeat: a payslip that already has a file is only
// re-notified, which the notification store deduplicates.
func (a *Archiver) Archive(ctx context.Context, payslipID string) error {
	log := contextutil.GetLogger(ctx, a.logger).With(zap.String("payslip_id", payslipID))

	p, err := a.repo.FindByID(ctx, payslipID)
	if err != nil {
		return mapRepositoryError(err)
	}

	if p.FileURL == nil || *p.FileURL == "" {
		renderer := export.PDFRenderer{}
		body, err := renderer.Render([]export.Slip{ToSlip(*p, log)}, export.Meta{
			Organization: a.opts.Organization,
			Currency:     a.opts.Currency,
			GeneratedBy:  "payroll archive",
			GeneratedAt:  a.opts.now(),
		})
		if err != nil {
			log.Error("archive render failed", zap.Error(err))
			return fmt.Errorf("render payslip %s: %w", payslipID, err)
		}

		key := ArchiveKey(*p)
		url, err := a.store.Upload(ctx, key, renderer.ContentType(), body)
		if err != nil {
			log.Error("archive upload failed", zap.String("key", key), zap.Error(err))
			return err
		}

		if err := a.repo.AttachFile(ctx, payslipID, url); err != nil {
			log.Error("archive attach file failed", zap.Error(err))
			return mapRepositoryError(err)
		}
		log.Info("payslip archived", zap.String("key", key))
	}

	if a.notifier == nil {
		return nil
	}
	return a.notifier.Notify(ctx, notification.NotifyInput{
		EmployeeID: p.EmployeeID.String(),
		Kind:       notification.KindPayslipArchived,
		Title:      fmt.Sprintf("Your payslip for %s is ready", monthYear(p.Year, p.Month)),
		Body:       fmt.Sprintf("Net pay %s", export.Money(p.NetPay, a.opts.Currency)),
		RefID:      payslipID,
	})
}

func monthYear(year, month int) string {
	return export.Slip{Year: year, Month: month}.Period()
}
