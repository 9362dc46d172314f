package domain

import "time"

const MaxDescriptionLength = 500

// Proposal is a capital-expenditure proposal. Immutable once approved.
type Proposal struct {
	PropertyID   uint64    `gorm:"column:property_id;primaryKey;autoIncrement:false" json:"property_id"`
	ProposalID   uint64    `gorm:"column:proposal_id;primaryKey;autoIncrement:false" json:"proposal_id"`
	Amount       uint64    `gorm:"column:amount;not null" json:"amount"`
	Description  string    `gorm:"column:description;type:varchar(500);not null" json:"description"`
	Approved     bool      `gorm:"column:approved;not null;default:false" json:"approved"`
	Proposer     Address   `gorm:"column:proposer;type:varchar(160);not null" json:"proposer"`
	VotesFor     uint64    `gorm:"column:votes_for;not null;default:0" json:"votes_for"`
	VotesAgainst uint64    `gorm:"column:votes_against;not null;default:0" json:"votes_against"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Proposal) TableName() string {
	return "proposals"
}

// ProposalVote records one voter's single vote and the weight it carried when cast.
type ProposalVote struct {
	PropertyID uint64    `gorm:"column:property_id;primaryKey;autoIncrement:false" json:"property_id"`
	ProposalID uint64    `gorm:"column:proposal_id;primaryKey;autoIncrement:false" json:"proposal_id"`
	Voter      Address   `gorm:"column:voter;type:varchar(160);primaryKey" json:"voter"`
	Support    bool      `gorm:"column:support;not null" json:"support"`
	Weight     uint64    `gorm:"column:weight;not null" json:"weight"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
}

func (ProposalVote) TableName() string {
	return "proposal_votes"
}
