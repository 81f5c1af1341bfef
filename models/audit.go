package models

import "time"

const (
	AuditActionCheckout           = "checkout.completed"
	AuditActionWithdrawalRequest  = "withdrawal.requested"
	AuditActionWithdrawalCancel   = "withdrawal.cancelled"
	AuditActionDepositConfirmed   = "deposit.confirmed"
	AuditActionDisputeResolved    = "dispute.resolved"
	AuditActionCampaignDeactivate = "campaign.deactivated"
)

// AuditLog is an append-only audit trail entry, stored in Mongo.
type AuditLog struct {
	ActorID    string                 `bson:"actor_id" json:"actor_id"`
	Action     string                 `bson:"action" json:"action"`
	EntityType string                 `bson:"entity_type" json:"entity_type"`
	EntityID   string                 `bson:"entity_id" json:"entity_id"`
	Metadata   map[string]interface{} `bson:"metadata,omitempty" json:"metadata,omitempty"`
	CreatedAt  time.Time              `bson:"created_at" json:"created_at"`
}
