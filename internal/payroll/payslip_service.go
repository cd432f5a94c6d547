package payroll

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"uni-hris/internal/bootstrap"
	"uni-hris/internal/domain"
	"uni-hris/internal/employee"
	"uni-hris/internal/events"
	"uni-hris/internal/messaging/kafka"
	payrollerrors "uni-hris/internal/payroll/errors"
	"uni-hris/internal/payroll/export"
	"uni-hris/internal/shared/contextutil"
	"uni-hris/internal/storage"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	minYear = 2000
	maxYear = 2100
)

//go:generate mockgen -source=payslip_service.go -destination=mock/payslip_service_mock.go -package=mock
type Service interface {
	Generate(ctx context.Context, principal domain.Principal, employeeID string, req GeneratePayslipRequest) (PayslipResponse, error)
	GetByID(ctx context.Context, principal domain.Principal, id string) (PayslipResponse, error)
	List(ctx context.Context, principal domain.Principal, filter ListFilter) ([]PayslipResponse, error)
	MarkPaid(ctx context.Context, principal domain.Principal, id string, req MarkPaidRequest) (PayslipResponse, error)
	AttachPayoutReference(ctx context.Context, principal domain.Principal, id, reference string) (PayslipResponse, error)
	AttachFile(ctx context.Context, id, url string) error
	Export(ctx context.Context, principal domain.Principal, req ExportRequest) (ExportResult, error)
	DownloadURL(ctx context.Context, principal domain.Principal, id string) (string, error)
}

// Options carries display settings shared by the service and the archiver.
type Options struct {
	Organization string
	Currency     string
	Now          func() time.Time
}

func (o Options) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

type service struct {
	db        *sql.DB
	repo      Repository
	employees employee.Repository
	outbox    kafka.OutboxRepository
	store     storage.Store
	audit     bootstrap.AuditLogger
	opts      Options
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	employees employee.Repository,
	outboxRepo kafka.OutboxRepository,
	store storage.Store,
	audit bootstrap.AuditLogger,
	opts Options,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("payroll.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("payroll.service")
	}
	return &service{
		db:        db,
		repo:      repo,
		employees: employees,
		outbox:    outboxRepo,
		store:     store,
		audit:     audit,
		opts:      opts,
		logger:    l,
	}
}

func (s *service) log(ctx context.Context) *zap.Logger {
	return contextutil.GetLogger(ctx, s.logger)
}

func (s *service) Generate(
	ctx context.Context,
	principal domain.Principal,
	employeeID string,
	req GeneratePayslipRequest,
) (PayslipResponse, error) {
	log := s.log(ctx)

	parsedID, err := uuid.Parse(employeeID)
	if err != nil {
		return PayslipResponse{}, payrollerrors.ErrInvalidEmployeeID
	}
	employeeID = parsedID.String()
	if !principal.IsPeopleManager() && !principal.Owns(employeeID) {
		log.Warn("generate payslip forbidden",
			zap.String("employee_id", employeeID),
			zap.String("role", string(principal.Role)),
		)
		return PayslipResponse{}, payrollerrors.ErrForbidden
	}
	if err := validatePeriod(req.Year, req.Month); err != nil {
		return PayslipResponse{}, err
	}

	amounts, err := resolveAdjustments(req)
	if err != nil {
		return PayslipResponse{}, err
	}

	empl, err := s.employees.FindByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return PayslipResponse{}, payrollerrors.ErrEmployeeNotFound
		}
		log.Error("generate payslip load employee failed", zap.Error(err))
		return PayslipResponse{}, err
	}

	breakdown, err := Calculate(CalculationInput{
		BaseSalary:           empl.BaseSalary,
		NHIFRate:             empl.NHIFRate,
		NSSFRate:             empl.NSSFRate,
		AdditionalEarnings:   amounts.earnings,
		AdditionalDeductions: amounts.deductions,
	})
	if err != nil {
		return PayslipResponse{}, err
	}

	components := map[string]decimal.Decimal{
		DeductionTax:  breakdown.TaxAmount,
		DeductionNHIF: breakdown.NHIFAmount,
		DeductionNSSF: breakdown.NSSFAmount,
	}
	if amounts.loan.IsPositive() {
		components[DeductionLoan] = amounts.loan
	}
	if amounts.cooperative.IsPositive() {
		components[DeductionCooperative] = amounts.cooperative
	}
	if other := amounts.deductions.Sub(amounts.loan).Sub(amounts.cooperative); other.IsPositive() {
		components[DeductionAdditional] = other
	}
	encoded, err := EncodeDeductions(components)
	if err != nil {
		return PayslipResponse{}, err
	}

	payslip := &Payslip{
		ID:                   uuid.New(),
		EmployeeID:           empl.ID,
		Month:                req.Month,
		Year:                 req.Year,
		BaseSalary:           empl.BaseSalary,
		GrossSalary:          breakdown.GrossSalary,
		AdditionalEarnings:   amounts.earnings,
		TaxAmount:            breakdown.TaxAmount,
		NHIFAmount:           breakdown.NHIFAmount,
		NSSFAmount:           breakdown.NSSFAmount,
		LoanAmount:           amounts.loan,
		CooperativeAmount:    amounts.cooperative,
		AdditionalDeductions: breakdown.AdditionalDeductions,
		TotalDeductions:      decimal.NewNullDecimal(breakdown.TotalDeductions),
		Deductions:           &encoded,
		NetPay:               breakdown.NetPay,
		CreatedBy:            principal.UserID,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("generate payslip begin tx failed", zap.Error(err))
		return PayslipResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	exists, err := qtx.ExistsForPeriod(ctx, employeeID, req.Year, req.Month)
	if err != nil {
		log.Error("generate payslip period check failed", zap.Error(err))
		return PayslipResponse{}, err
	}
	if exists {
		return PayslipResponse{}, payrollerrors.ErrPayslipExists
	}

	if err := qtx.Create(ctx, payslip); err != nil {
		log.Error("generate payslip persist failed", zap.Error(err))
		return PayslipResponse{}, mapRepositoryError(err)
	}

	if s.outbox != nil {
		if err := s.enqueueGenerated(ctx, tx, payslip); err != nil {
			return PayslipResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		log.Error("generate payslip commit failed", zap.Error(err))
		return PayslipResponse{}, mapRepositoryError(err)
	}

	s.auditLog(ctx, "PAYSLIP_GENERATED", "payslip generated", map[string]any{
		"payslip_id":  payslip.ID.String(),
		"employee_id": employeeID,
		"period":      fmt.Sprintf("%04d-%02d", req.Year, req.Month),
		"net_pay":     payslip.NetPay.StringFixed(2),
	})
	log.Info("payslip generated",
		zap.String("payslip_id", payslip.ID.String()),
		zap.String("employee_id", employeeID),
	)

	payslip.Employee = &PayslipEmployee{
		ID:          empl.ID,
		StaffNumber: empl.StaffNumber,
		FullName:    empl.FullName,
		Email:       empl.Email,
		Department:  empl.Department,
		Position:    empl.Position,
		BankName:    empl.BankName,
		BankAccount: empl.BankAccount,
	}
	return mapToResponse(*payslip, log), nil
}

func (s *service) enqueueGenerated(ctx context.Context, tx *sql.Tx, p *Payslip) error {
	rid := contextutil.GetRequestID(ctx)
	event := events.PayslipGeneratedEvent{
		EventType:   events.PayslipGeneratedType,
		RequestID:   rid,
		PayslipID:   p.ID.String(),
		EmployeeID:  p.EmployeeID.String(),
		Year:        p.Year,
		Month:       p.Month,
		GeneratedBy: p.CreatedBy,
		OccurredAt:  s.opts.now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     rid,
		AggregateType: "payslip",
		AggregateID:   p.ID.String(),
		EventType:     event.EventType,
		Topic:         events.PayslipGeneratedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}); err != nil {
		s.log(ctx).Error("generate payslip outbox persist failed",
			zap.String("payslip_id", p.ID.String()),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (s *service) GetByID(ctx context.Context, principal domain.Principal, id string) (PayslipResponse, error) {
	p, err := s.loadReadable(ctx, principal, id)
	if err != nil {
		return PayslipResponse{}, err
	}
	return mapToResponse(*p, s.log(ctx)), nil
}

func (s *service) loadReadable(ctx context.Context, principal domain.Principal, id string) (*Payslip, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, payrollerrors.ErrInvalidPayslipID
	}

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	if !canRead(principal, p) {
		s.log(ctx).Warn("payslip read forbidden",
			zap.String("payslip_id", id),
			zap.String("user_id", principal.UserID),
		)
		return nil, payrollerrors.ErrForbidden
	}
	return p, nil
}

func canRead(principal domain.Principal, p *Payslip) bool {
	return principal.CanReadAllPayslips() || principal.Owns(p.EmployeeID.String())
}

func (s *service) List(ctx context.Context, principal domain.Principal, filter ListFilter) ([]PayslipResponse, error) {
	if filter.Month != 0 && (filter.Month < 1 || filter.Month > 12) {
		return nil, payrollerrors.ErrInvalidMonth
	}
	if filter.Year != 0 && (filter.Year < minYear || filter.Year > maxYear) {
		return nil, payrollerrors.ErrInvalidYear
	}
	if filter.EmployeeID != "" {
		id, err := uuid.Parse(filter.EmployeeID)
		if err != nil {
			return nil, payrollerrors.ErrInvalidEmployeeID
		}
		filter.EmployeeID = id.String()
	}

	if !principal.CanReadAllPayslips() {
		if principal.EmployeeID == "" {
			return nil, payrollerrors.ErrForbidden
		}
		if filter.EmployeeID != "" && !principal.Owns(filter.EmployeeID) {
			return nil, payrollerrors.ErrForbidden
		}
		filter.EmployeeID = principal.EmployeeID
	}

	payslips, err := s.repo.List(ctx, filter)
	if err != nil {
		s.log(ctx).Error("list payslips failed", zap.Error(err))
		return nil, err
	}

	log := s.log(ctx)
	out := make([]PayslipResponse, 0, len(payslips))
	for _, p := range payslips {
		out = append(out, mapToResponse(p, log))
	}
	return out, nil
}

func (s *service) MarkPaid(ctx context.Context, principal domain.Principal, id string, req MarkPaidRequest) (PayslipResponse, error) {
	log := s.log(ctx)
	if !principal.CanSettlePayslips() {
		return PayslipResponse{}, payrollerrors.ErrForbidden
	}
	if _, err := uuid.Parse(id); err != nil {
		return PayslipResponse{}, payrollerrors.ErrInvalidPayslipID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("mark paid begin tx failed", zap.Error(err))
		return PayslipResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	p, err := qtx.FindByID(ctx, id)
	if err != nil {
		return PayslipResponse{}, mapRepositoryError(err)
	}
	if p.Paid {
		return PayslipResponse{}, payrollerrors.ErrAlreadyPaid
	}

	paidAt := s.opts.now().UTC()
	var ref *string
	if r := strings.TrimSpace(req.PayoutReference); r != "" {
		ref = &r
	}
	if err := qtx.MarkPaid(ctx, id, paidAt, ref); err != nil {
		log.Error("mark paid persist failed", zap.Error(err))
		return PayslipResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		log.Error("mark paid commit failed", zap.Error(err))
		return PayslipResponse{}, err
	}

	p.Paid = true
	p.PaidAt = &paidAt
	if ref != nil {
		p.PayoutReference = ref
	}

	s.auditLog(ctx, "PAYSLIP_PAID", "payslip marked paid", map[string]any{
		"payslip_id":       id,
		"employee_id":      p.EmployeeID.String(),
		"payout_reference": req.PayoutReference,
	})
	return mapToResponse(*p, log), nil
}

func (s *service) AttachPayoutReference(ctx context.Context, principal domain.Principal, id, reference string) (PayslipResponse, error) {
	if !principal.CanSettlePayslips() {
		return PayslipResponse{}, payrollerrors.ErrForbidden
	}
	if _, err := uuid.Parse(id); err != nil {
		return PayslipResponse{}, payrollerrors.ErrInvalidPayslipID
	}
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return PayslipResponse{}, payrollerrors.ErrPayoutReferenceRequired
	}

	if err := s.repo.SetPayoutReference(ctx, id, reference); err != nil {
		s.log(ctx).Error("attach payout reference failed", zap.String("payslip_id", id), zap.Error(err))
		return PayslipResponse{}, mapRepositoryError(err)
	}

	s.auditLog(ctx, "PAYSLIP_PAYOUT_REFERENCE", "payout reference attached", map[string]any{
		"payslip_id":       id,
		"payout_reference": reference,
	})
	return s.GetByID(ctx, principal, id)
}

func (s *service) AttachFile(ctx context.Context, id, url string) error {
	if err := s.repo.AttachFile(ctx, id, url); err != nil {
		return mapRepositoryError(err)
	}
	return nil
}

// Export resolves the record set, checks the format and ownership, then
// renders from stored values only.
func (s *service) Export(ctx context.Context, principal domain.Principal, req ExportRequest) (ExportResult, error) {
	log := s.log(ctx)

	format, err := export.ParseFormat(req.Format)
	if err != nil {
		return ExportResult{}, err
	}
	renderer, err := export.RendererFor(format)
	if err != nil {
		return ExportResult{}, err
	}

	records, err := s.resolveExport(ctx, principal, req)
	if err != nil {
		return ExportResult{}, err
	}

	for i := range records {
		if !canRead(principal, &records[i]) {
			log.Warn("export forbidden",
				zap.String("payslip_id", records[i].ID.String()),
				zap.String("user_id", principal.UserID),
			)
			return ExportResult{}, payrollerrors.ErrForbidden
		}
	}

	slips := make([]export.Slip, 0, len(records))
	for _, p := range records {
		slips = append(slips, ToSlip(p, log))
	}

	now := s.opts.now()
	body, err := renderer.Render(slips, export.Meta{
		Organization: s.opts.Organization,
		Currency:     s.opts.Currency,
		GeneratedBy:  fmt.Sprintf("%s (%s)", principal.UserID, principal.Role),
		GeneratedAt:  now,
	})
	if err != nil {
		log.Error("render payslips failed", zap.String("format", string(format)), zap.Error(err))
		return ExportResult{}, payrollerrors.ErrRenderFailed.WithErr(err)
	}

	return ExportResult{
		Filename:    exportFilename(records, renderer.Extension(), now),
		ContentType: renderer.ContentType(),
		Body:        body,
	}, nil
}

func (s *service) resolveExport(ctx context.Context, principal domain.Principal, req ExportRequest) ([]Payslip, error) {
	var ids []string
	switch {
	case strings.TrimSpace(req.ID) != "":
		ids = []string{strings.TrimSpace(req.ID)}
	case len(req.IDs) > 0:
		seen := make(map[string]struct{}, len(req.IDs))
		for _, id := range req.IDs {
			id = strings.TrimSpace(id)
			if id == "" {
				continue
			}
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	case strings.TrimSpace(req.PayslipID) != "":
		ids = []string{strings.TrimSpace(req.PayslipID)}
	default:
		if principal.EmployeeID == "" {
			return nil, payrollerrors.ErrNoPayslips
		}
		records, err := s.repo.List(ctx, ListFilter{EmployeeID: principal.EmployeeID})
		if err != nil {
			return nil, err
		}
		if len(records) == 0 {
			return nil, payrollerrors.ErrNoPayslips
		}
		return records, nil
	}

	if len(ids) == 0 {
		return nil, payrollerrors.ErrNoPayslips
	}
	for _, id := range ids {
		if _, err := uuid.Parse(id); err != nil {
			return nil, payrollerrors.ErrInvalidPayslipID.WithDetails(map[string]any{"id": id})
		}
	}

	records, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		if len(ids) == 1 {
			return nil, payrollerrors.ErrPayslipNotFound
		}
		return nil, payrollerrors.ErrNoPayslips
	}
	if len(records) != len(ids) {
		found := make(map[string]bool, len(records))
		for _, r := range records {
			found[r.ID.String()] = true
		}
		missing := make([]string, 0, len(ids)-len(records))
		for _, id := range ids {
			if !found[id] {
				missing = append(missing, id)
			}
		}
		return nil, payrollerrors.ErrPayslipNotFound.WithDetails(map[string]any{"missing_ids": missing})
	}
	return records, nil
}

func (s *service) DownloadURL(ctx context.Context, principal domain.Principal, id string) (string, error) {
	p, err := s.loadReadable(ctx, principal, id)
	if err != nil {
		return "", err
	}
	if p.FileURL == nil || *p.FileURL == "" {
		return "", payrollerrors.ErrPayslipNotArchived
	}
	if s.store == nil {
		return *p.FileURL, nil
	}

	url, err := s.store.PresignGet(ctx, ArchiveKey(*p))
	if err != nil {
		s.log(ctx).Error("presign payslip download failed", zap.String("payslip_id", id), zap.Error(err))
		return "", err
	}
	return url, nil
}

func (s *service) auditLog(ctx context.Context, action, message string, meta map[string]any) {
	if s.audit == nil {
		return
	}
	s.audit.Log(ctx, bootstrap.AuditLog{Action: action, Message: message, Meta: meta})
}

type adjustments struct {
	earnings    decimal.Decimal
	deductions  decimal.Decimal
	loan        decimal.Decimal
	cooperative decimal.Decimal
}

// resolveAdjustments applies defaults: absent amounts are zero, and when
// additional_deductions is absent it is the sum of the itemized parts.
func resolveAdjustments(req GeneratePayslipRequest) (adjustments, error) {
	a := adjustments{
		earnings:    orZero(req.AdditionalEarnings),
		loan:        orZero(req.LoanDeduction),
		cooperative: orZero(req.CooperativeDeduction),
	}
	itemized := a.loan.Add(a.cooperative)
	if req.AdditionalDeductions.Valid {
		a.deductions = req.AdditionalDeductions.Decimal
	} else {
		a.deductions = itemized
	}

	for _, v := range []decimal.Decimal{a.earnings, a.deductions, a.loan, a.cooperative} {
		if v.IsNegative() {
			return adjustments{}, payrollerrors.ErrNegativeAmount
		}
	}
	if itemized.GreaterThan(a.deductions) {
		return adjustments{}, payrollerrors.ErrItemizationExceedsTotal
	}
	return a, nil
}

func orZero(d decimal.NullDecimal) decimal.Decimal {
	if d.Valid {
		return d.Decimal
	}
	return decimal.Zero
}

func validatePeriod(year, month int) error {
	if month < 1 || month > 12 {
		return payrollerrors.ErrInvalidMonth
	}
	if year < minYear || year > maxYear {
		return payrollerrors.ErrInvalidYear
	}
	return nil
}

// ArchiveKey is the object key of a payslip's archived PDF.
func ArchiveKey(p Payslip) string {
	return fmt.Sprintf("payslips/%04d/%02d/%s.pdf", p.Year, p.Month, p.ID.String())
}

func exportFilename(records []Payslip, ext string, now time.Time) string {
	if len(records) == 1 {
		p := records[0]
		staff := "unknown"
		if p.Employee != nil && p.Employee.StaffNumber != "" {
			staff = p.Employee.StaffNumber
		}
		return fmt.Sprintf("payslip_%s_%04d_%02d.%s", staff, p.Year, p.Month, ext)
	}
	return fmt.Sprintf("payslips_%s.%s", now.Format("20060102"), ext)
}

// ToSlip builds the display view of a stored payslip.
func ToSlip(p Payslip, logger *zap.Logger) export.Slip {
	deductions := ResolveDeductions(p.Deductions, p.TotalDeductions, logger)
	lines := make([]export.Line, 0, len(deductions.Lines))
	for _, l := range deductions.Lines {
		lines = append(lines, export.Line{Name: l.Name, Amount: l.Amount})
	}

	slip := export.Slip{
		Month:              p.Month,
		Year:               p.Year,
		BaseSalary:         p.BaseSalary,
		AdditionalEarnings: p.AdditionalEarnings,
		GrossSalary:        p.GrossSalary,
		Deductions:         lines,
		TotalDeductions:    deductions.Total,
		NetPay:             p.NetPay,
		Paid:               p.Paid,
		PaidAt:             p.PaidAt,
	}
	if p.PayoutReference != nil {
		slip.PayoutReference = *p.PayoutReference
	}
	if p.Employee != nil {
		slip.StaffNumber = p.Employee.StaffNumber
		slip.FullName = p.Employee.FullName
		slip.Department = p.Employee.Department
		slip.Position = p.Employee.Position
		slip.BankName = p.Employee.BankName
		slip.BankAccount = p.Employee.BankAccount
	}
	return slip
}

func mapToResponse(p Payslip, logger *zap.Logger) PayslipResponse {
	deductions := ResolveDeductions(p.Deductions, p.TotalDeductions, logger)
	resp := PayslipResponse{
		ID:                   p.ID.String(),
		EmployeeID:           p.EmployeeID.String(),
		Month:                p.Month,
		Year:                 p.Year,
		BaseSalary:           p.BaseSalary,
		AdditionalEarnings:   p.AdditionalEarnings,
		GrossSalary:          p.GrossSalary,
		TaxAmount:            p.TaxAmount,
		NHIFAmount:           p.NHIFAmount,
		NSSFAmount:           p.NSSFAmount,
		LoanAmount:           p.LoanAmount,
		CooperativeAmount:    p.CooperativeAmount,
		AdditionalDeductions: p.AdditionalDeductions,
		Deductions:           deductions,
		TotalDeductions:      deductions.Total,
		NetPay:               p.NetPay,
		Paid:                 p.Paid,
		PayoutReference:      p.PayoutReference,
		Archived:             p.FileURL != nil && *p.FileURL != "",
		CreatedBy:            p.CreatedBy,
		CreatedAt:            p.CreatedAt.Format(time.RFC3339),
	}
	if p.PaidAt != nil {
		v := p.PaidAt.Format(time.RFC3339)
		resp.PaidAt = &v
	}
	if p.Employee != nil {
		resp.Employee = &PayslipEmployeeResponse{
			ID:          p.Employee.ID.String(),
			StaffNumber: p.Employee.StaffNumber,
			FullName:    p.Employee.FullName,
			Department:  p.Employee.Department,
			Position:    p.Employee.Position,
		}
	}
	return resp
}
