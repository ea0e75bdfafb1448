package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/hospital-api/internal/model"
)

// All repository interfaces in one file
type (
	PatientRepository interface {
		Create(ctx context.Context, patient *model.Patient) error
		Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
		Update(ctx context.Context, patient *model.Patient) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, int, error)
		HasOpenAdmission(ctx context.Context, id uuid.UUID) (bool, error)
	}

	WardRepository interface {
		CreateWard(ctx context.Context, ward *model.Ward) error
		GetWard(ctx context.Context, id uuid.UUID) (*model.Ward, error)
		ListWards(ctx context.Context) ([]*model.Ward, error)
		CreateBed(ctx context.Context, bed *model.Bed) error
		GetBed(ctx context.Context, id uuid.UUID) (*model.Bed, error)
		ListBeds(ctx context.Context, wardID uuid.UUID) ([]*model.Bed, error)
	}

	// ADTRepository reads admission history and opens write transactions.
	// All writes that touch bed occupancy go through WithTx.
	ADTRepository interface {
		WithTx(ctx context.Context, fn func(tx ADTTx) error) error
		GetAdmission(ctx context.Context, id uuid.UUID) (*model.Admission, error)
		ListAdmissions(ctx context.Context, filters *model.AdmissionFilters) ([]*model.Admission, error)
		ListTransfers(ctx context.Context, admissionID *uuid.UUID) ([]*model.Transfer, error)
		ListDischarges(ctx context.Context, filters *model.DischargeFilters) ([]*model.Discharge, error)
		Census(ctx context.Context) ([]*model.WardCensus, error)
	}

	// ADTTx is the set of statements available inside one ADT transaction.
	ADTTx interface {
		GetPatient(ctx context.Context, id uuid.UUID) (*model.Patient, error)
		GetWard(ctx context.Context, id uuid.UUID) (*model.Ward, error)
		// LockBed locks the bed row and returns it with occupancy derived
		// from open admissions.
		LockBed(ctx context.Context, id uuid.UUID) (*model.Bed, error)
		LockAdmission(ctx context.Context, id uuid.UUID) (*model.Admission, error)
		// LatestTransferDate returns nil when the admission has no transfers.
		LatestTransferDate(ctx context.Context, admissionID uuid.UUID) (*time.Time, error)
		CreateAdmission(ctx context.Context, admission *model.Admission) error
		UpdateAdmission(ctx context.Context, admission *model.Admission) error
		CreateTransfer(ctx context.Context, transfer *model.Transfer) error
		CreateDischarge(ctx context.Context, discharge *model.Discharge) error
		EnqueueEvent(ctx context.Context, event *model.OutboxEvent) error
	}

	AppointmentRepository interface {
		Create(ctx context.Context, appointment *model.Appointment) error
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		Update(ctx context.Context, appointment *model.Appointment) error
		List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error)
		CheckConflicts(ctx context.Context, doctorID uuid.UUID, startTime, endTime time.Time, excludeID *uuid.UUID) (bool, error)
	}

	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
		GetByEmail(ctx context.Context, email string) (*model.User, error)
		GetByVerificationToken(ctx context.Context, token string) (*model.User, error)
		MarkEmailVerified(ctx context.Context, id uuid.UUID) error
		UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	}

	PharmacyRepository interface {
		CreateMedication(ctx context.Context, medication *model.Medication) error
		GetMedication(ctx context.Context, id uuid.UUID) (*model.Medication, error)
		ListMedications(ctx context.Context) ([]*model.Medication, error)
		Restock(ctx context.Context, id uuid.UUID, quantity int) (*model.Medication, error)
		CreatePrescription(ctx context.Context, prescription *model.Prescription) error
		GetPrescription(ctx context.Context, id uuid.UUID) (*model.Prescription, error)
		ListPrescriptions(ctx context.Context, filters *model.PrescriptionFilters) ([]*model.Prescription, error)
		// Dispense marks an active prescription dispensed and decrements the
		// medication stock in one transaction.
		Dispense(ctx context.Context, id uuid.UUID, at time.Time) (*model.Prescription, error)
	}

	DiagnosticsRepository interface {
		CreateLabOrder(ctx context.Context, order *model.LabOrder) error
		GetLabOrder(ctx context.Context, id uuid.UUID) (*model.LabOrder, error)
		ListLabOrders(ctx context.Context, filters *model.OrderFilters) ([]*model.LabOrder, error)
		RecordLabResult(ctx context.Context, order *model.LabOrder) error
		CreateRadiologyOrder(ctx context.Context, order *model.RadiologyOrder) error
		GetRadiologyOrder(ctx context.Context, id uuid.UUID) (*model.RadiologyOrder, error)
		ListRadiologyOrders(ctx context.Context, filters *model.OrderFilters) ([]*model.RadiologyOrder, error)
		RecordRadiologyReport(ctx context.Context, order *model.RadiologyOrder) error
	}

	BillingRepository interface {
		CreateInvoice(ctx context.Context, invoice *model.Invoice) error
		GetInvoice(ctx context.Context, id uuid.UUID) (*model.Invoice, error)
		ListInvoices(ctx context.Context, filters *model.InvoiceFilters) ([]*model.Invoice, error)
		// RecordPayment locks the invoice, applies the payment and updates
		// the status in one transaction.
		RecordPayment(ctx context.Context, payment *model.Payment) (*model.Invoice, error)
		ListPayments(ctx context.Context, invoiceID uuid.UUID) ([]*model.Payment, error)
	}

	TriageRepository interface {
		Create(ctx context.Context, record *model.TriageRecord) error
		Get(ctx context.Context, id uuid.UUID) (*model.TriageRecord, error)
		Queue(ctx context.Context) ([]*model.TriageRecord, error)
		MarkSeen(ctx context.Context, id uuid.UUID, at time.Time) error
	}

	OutboxRepository interface {
		// ProcessPending claims up to limit pending events with SKIP LOCKED,
		// hands each to fn and records the outcome. Events that fail
		// maxRetries times are marked failed.
		ProcessPending(ctx context.Context, limit, maxRetries int, fn func(*model.OutboxEvent) error) (processed, failed int, err error)
		DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
	}
)
