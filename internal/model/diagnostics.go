package model

import (
	"time"

	"github.com/google/uuid"
)

type OrderPriority string

const (
	PriorityRoutine OrderPriority = "routine"
	PriorityUrgent  OrderPriority = "urgent"
	PriorityStat    OrderPriority = "stat"
)

type OrderStatus string

const (
	OrderStatusOrdered   OrderStatus = "ordered"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

type LabOrder struct {
	Base
	PatientID   uuid.UUID     `db:"patient_id" json:"patient_id"`
	AdmissionID *uuid.UUID    `db:"admission_id" json:"admission_id,omitempty"`
	TestCode    string        `db:"test_code" json:"test_code"`
	TestName    string        `db:"test_name" json:"test_name"`
	Priority    OrderPriority `db:"priority" json:"priority"`
	Status      OrderStatus   `db:"status" json:"status"`
	OrderedBy   string        `db:"ordered_by" json:"ordered_by"`
	Result      *string       `db:"result" json:"result,omitempty"`
	ResultFlag  *string       `db:"result_flag" json:"result_flag,omitempty"`
	ResultedAt  *time.Time    `db:"resulted_at" json:"resulted_at,omitempty"`
}

type RadiologyOrder struct {
	Base
	PatientID   uuid.UUID     `db:"patient_id" json:"patient_id"`
	AdmissionID *uuid.UUID    `db:"admission_id" json:"admission_id,omitempty"`
	Modality    string        `db:"modality" json:"modality"`
	BodyPart    string        `db:"body_part" json:"body_part"`
	Priority    OrderPriority `db:"priority" json:"priority"`
	Status      OrderStatus   `db:"status" json:"status"`
	OrderedBy   string        `db:"ordered_by" json:"ordered_by"`
	Findings    *string       `db:"findings" json:"findings,omitempty"`
	Impression  *string       `db:"impression" json:"impression,omitempty"`
	ReportedAt  *time.Time    `db:"reported_at" json:"reported_at,omitempty"`
}

type CreateLabOrderRequest struct {
	PatientID   uuid.UUID     `json:"patient_id" binding:"required"`
	AdmissionID *uuid.UUID    `json:"admission_id"`
	TestCode    string        `json:"test_code" binding:"required,max=32"`
	TestName    string        `json:"test_name" binding:"required,max=200"`
	Priority    OrderPriority `json:"priority" binding:"omitempty,oneof=routine urgent stat"`
	OrderedBy   string        `json:"ordered_by" binding:"required,max=200"`
}

type LabResultRequest struct {
	Result string `json:"result" binding:"required,max=4000"`
	Flag   string `json:"flag" binding:"required,oneof=normal abnormal critical"`
}

type CreateRadiologyOrderRequest struct {
	PatientID   uuid.UUID     `json:"patient_id" binding:"required"`
	AdmissionID *uuid.UUID    `json:"admission_id"`
	Modality    string        `json:"modality" binding:"required,oneof=xray ct mri ultrasound mammography fluoroscopy"`
	BodyPart    string        `json:"body_part" binding:"required,max=100"`
	Priority    OrderPriority `json:"priority" binding:"omitempty,oneof=routine urgent stat"`
	OrderedBy   string        `json:"ordered_by" binding:"required,max=200"`
}

type RadiologyReportRequest struct {
	Findings   string `json:"findings" binding:"required,max=8000"`
	Impression string `json:"impression" binding:"required,max=2000"`
}

type OrderFilters struct {
	PatientID *uuid.UUID
	Status    OrderStatus
}
