package payroll_test

import (
	"context"
	"errors"
	"testing"

	"uni-hris/internal/notification"
	notificationMock "uni-hris/internal/notification/mock"
	"uni-hris/internal/payroll"
	payrollMock "uni-hris/internal/payroll/mock"
	storageMock "uni-hris/internal/storage/mock"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

type archiverDeps struct {
	archiver *payroll.Archiver
	repo     *payrollMock.MockRepository
	store    *storageMock.MockStore
	notifier *notificationMock.MockService
}

func setupArchiver(t *testing.T) *archiverDeps {
	ctrl := gomock.NewController(t)
	d := &archiverDeps{
		repo:     payrollMock.NewMockRepository(ctrl),
		store:    storageMock.NewMockStore(ctrl),
		notifier: notificationMock.NewMockService(ctrl),
	}
	d.archiver = payroll.NewArchiver(d.repo, d.store, d.notifier, payroll.Options{Organization: "Kabarak University", Currency: "KES"}, zap.NewNop())
	return d
}

func TestArchiver_Archive(t *testing.T) {
	t.Run("renders uploads and notifies", func(t *testing.T) {
		d := setupArchiver(t)
		p := samplePayslip(ownEmployeeID)
		id := p.ID.String()
		key := "payslips/2025/03/" + id + ".pdf"

		d.repo.EXPECT().FindByID(gomock.Any(), id).Return(p, nil)
		d.store.EXPECT().Upload(gomock.Any(), key, "application/pdf", gomock.Any()).
			DoAndReturn(func(_ context.Context, _, _ string, body []byte) (string, error) {
				assert.Equal(t, "%PDF", string(body[:4]))
				return "https://bucket/" + key, nil
			})
		d.repo.EXPECT().AttachFile(gomock.Any(), id, "https://bucket/"+key).Return(nil)
		d.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, in notification.NotifyInput) error {
			assert.Equal(t, ownEmployeeID.String(), in.EmployeeID)
			assert.Equal(t, notification.KindPayslipArchived, in.Kind)
			assert.Equal(t, id, in.RefID)
			assert.Equal(t, "Your payslip for March 2025 is ready", in.Title)
			assert.Equal(t, "Net pay KES 34,000.00", in.Body)
			return nil
		})

		assert.NoError(t, d.archiver.Archive(context.Background(), id))
	})

	t.Run("already archived only notifies", func(t *testing.T) {
		d := setupArchiver(t)
		p := samplePayslip(ownEmployeeID)
		url := "https://bucket/existing.pdf"
		p.FileURL = &url

		d.repo.EXPECT().FindByID(gomock.Any(), p.ID.String()).Return(p, nil)
		d.notifier.EXPECT().Notify(gomock.Any(), gomock.Any()).Return(nil)

		assert.NoError(t, d.archiver.Archive(context.Background(), p.ID.String()))
	})

	t.Run("upload failure is returned for retry", func(t *testing.T) {
		d := setupArchiver(t)
		p := samplePayslip(ownEmployeeID)

		d.repo.EXPECT().FindByID(gomock.Any(), p.ID.String()).Return(p, nil)
		d.store.EXPECT().Upload(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("", errors.New("s3 down"))

		assert.Error(t, d.archiver.Archive(context.Background(), p.ID.String()))
	})
}
