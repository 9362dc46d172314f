package proposals

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"rentledger-backend/internal/application/ledgerevents"
	"rentledger-backend/internal/domain"
	"rentledger-backend/internal/infrastructure/database"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const component = "proposals"

type PropertyDirectory interface {
	Exists(ctx context.Context, propertyID uint64) (bool, error)
}

// ShareBalances supplies live vote weights.
type ShareBalances interface {
	BalanceOf(ctx context.Context, propertyID uint64, holder domain.Address) (uint64, error)
	TotalSupply(ctx context.Context, propertyID uint64) (uint64, error)
}

// Service is the ProposalGate for capital expenditure. A vote weighs the voter's
// share balance at the moment it is cast; recorded weights never change afterwards.
type Service struct {
	Runner     *database.Runner
	Events     *ledgerevents.Service
	Properties PropertyDirectory
	Shares     ShareBalances
	Admin      domain.Address
}

// VoteTally is the current count of a proposal.
type VoteTally struct {
	VotesFor     uint64 `json:"votes_for"`
	VotesAgainst uint64 `json:"votes_against"`
	Approved     bool   `json:"approved"`
}

func sequenceName(propertyID uint64) string {
	return fmt.Sprintf("proposal:%d", propertyID)
}

// CreateProposal opens a proposal and returns its id, sequential per property from 1.
func (s *Service) CreateProposal(ctx context.Context, caller domain.Address, propertyID, amount uint64, description string) (uint64, error) {
	if propertyID == 0 {
		return 0, ErrInvalidPropertyID
	}
	if amount == 0 || amount > domain.MaxAmount {
		return 0, ErrInvalidAmount
	}
	if strings.TrimSpace(description) == "" || len(description) > domain.MaxDescriptionLength {
		return 0, ErrInvalidDescription
	}
	var id uint64
	err := s.Runner.Atomic(ctx, database.PropertyKey(propertyID), func(ctx context.Context, tx *gorm.DB) error {
		if err := s.checkProperty(ctx, propertyID); err != nil {
			return err
		}
		next, err := database.NextSequence(tx, sequenceName(propertyID))
		if err != nil {
			return err
		}
		if err := tx.Create(&domain.Proposal{
			PropertyID:  propertyID,
			ProposalID:  next,
			Amount:      amount,
			Description: description,
			Proposer:    caller,
		}).Error; err != nil {
			return err
		}
		id = next
		return s.Events.Record(ctx, component, "proposal-created", propertyID, caller, map[string]interface{}{
			"proposal_id": next,
			"amount":      amount,
		})
	})
	if err != nil {
		return 0, err
	}
	log.Info().Str("component", component).Uint64("property_id", propertyID).Uint64("proposal_id", id).Uint64("amount", amount).Msg("proposal created")
	return id, nil
}

func (s *Service) VoteFor(ctx context.Context, caller domain.Address, propertyID, proposalID uint64) error {
	return s.vote(ctx, caller, propertyID, proposalID, true)
}

func (s *Service) VoteAgainst(ctx context.Context, caller domain.Address, propertyID, proposalID uint64) error {
	return s.vote(ctx, caller, propertyID, proposalID, false)
}

func (s *Service) vote(ctx context.Context, caller domain.Address, propertyID, proposalID uint64, support bool) error {
	if propertyID == 0 {
		return ErrInvalidPropertyID
	}
	if proposalID == 0 {
		return ErrInvalidProposalID
	}
	var weight uint64
	err := s.Runner.Atomic(ctx, database.PropertyKey(propertyID), func(ctx context.Context, tx *gorm.DB) error {
		if err := s.checkProperty(ctx, propertyID); err != nil {
			return err
		}
		proposal, err := loadProposal(tx, propertyID, proposalID)
		if err != nil {
			return err
		}
		weight, err = s.Shares.BalanceOf(ctx, propertyID, caller)
		if err != nil {
			return err
		}
		if weight == 0 {
			return ErrNoShares
		}
		voted, err := hasVoted(tx, propertyID, proposalID, caller)
		if err != nil {
			return err
		}
		if voted {
			return ErrAlreadyVoted
		}
		if proposal.Approved {
			return ErrAlreadyApproved
		}

		column, total := "votes_against", proposal.VotesAgainst
		if support {
			column, total = "votes_for", proposal.VotesFor
		}
		total, err = domain.AddAmount(total, weight)
		if err != nil {
			return err
		}
		if err := tx.Create(&domain.ProposalVote{
			PropertyID: propertyID,
			ProposalID: proposalID,
			Voter:      caller,
			Support:    support,
			Weight:     weight,
		}).Error; err != nil {
			return err
		}
		if err := tx.Model(&domain.Proposal{}).
			Where("property_id = ? AND proposal_id = ?", propertyID, proposalID).
			Update(column, total).Error; err != nil {
			return err
		}
		return s.Events.Record(ctx, component, "proposal-voted", propertyID, caller, map[string]interface{}{
			"proposal_id": proposalID,
			"support":     support,
			"weight":      weight,
		})
	})
	if err != nil {
		return err
	}
	log.Info().Str("component", component).Uint64("property_id", propertyID).Uint64("proposal_id", proposalID).
		Str("voter", caller.String()).Bool("support", support).Uint64("weight", weight).Msg("vote cast")
	return nil
}

// Finalize approves a proposal whose votes-for strictly exceed half the current total supply.
func (s *Service) Finalize(ctx context.Context, caller domain.Address, propertyID, proposalID uint64) error {
	if caller != s.Admin {
		return ErrNotAuthorized
	}
	if propertyID == 0 {
		return ErrInvalidPropertyID
	}
	if proposalID == 0 {
		return ErrInvalidProposalID
	}
	err := s.Runner.Atomic(ctx, database.PropertyKey(propertyID), func(ctx context.Context, tx *gorm.DB) error {
		if err := s.checkProperty(ctx, propertyID); err != nil {
			return err
		}
		proposal, err := loadProposal(tx, propertyID, proposalID)
		if err != nil {
			return err
		}
		if proposal.Approved {
			return ErrAlreadyApproved
		}
		supply, err := s.Shares.TotalSupply(ctx, propertyID)
		if err != nil {
			return err
		}
		if proposal.VotesFor <= supply/2 {
			return ErrInsufficientVotes
		}
		if err := tx.Model(&domain.Proposal{}).
			Where("property_id = ? AND proposal_id = ?", propertyID, proposalID).
			Update("approved", true).Error; err != nil {
			return err
		}
		return s.Events.Record(ctx, component, "proposal-approved", propertyID, caller, map[string]interface{}{
			"proposal_id":   proposalID,
			"votes_for":     proposal.VotesFor,
			"votes_against": proposal.VotesAgainst,
			"total_supply":  supply,
		})
	})
	if err != nil {
		return err
	}
	log.Info().Str("component", component).Uint64("property_id", propertyID).Uint64("proposal_id", proposalID).Msg("proposal approved")
	return nil
}

// GetProposal returns a proposal or ErrProposalNotFound.
func (s *Service) GetProposal(ctx context.Context, propertyID, proposalID uint64) (*domain.Proposal, error) {
	return loadProposal(s.Runner.Conn(ctx), propertyID, proposalID)
}

func (s *Service) GetVotes(ctx context.Context, propertyID, proposalID uint64) (*VoteTally, error) {
	proposal, err := s.GetProposal(ctx, propertyID, proposalID)
	if err != nil {
		return nil, err
	}
	return &VoteTally{VotesFor: proposal.VotesFor, VotesAgainst: proposal.VotesAgainst, Approved: proposal.Approved}, nil
}

// IsApproved is false for unknown proposals.
func (s *Service) IsApproved(ctx context.Context, propertyID, proposalID uint64) (bool, error) {
	proposal, err := s.GetProposal(ctx, propertyID, proposalID)
	if errors.Is(err, ErrProposalNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return proposal.Approved, nil
}

func (s *Service) HasVoted(ctx context.Context, propertyID, proposalID uint64, voter domain.Address) (bool, error) {
	return hasVoted(s.Runner.Conn(ctx), propertyID, proposalID, voter)
}

// GetVote returns the recorded vote of voter, or nil.
func (s *Service) GetVote(ctx context.Context, propertyID, proposalID uint64, voter domain.Address) (*domain.ProposalVote, error) {
	var vote domain.ProposalVote
	err := s.Runner.Conn(ctx).
		Where("property_id = ? AND proposal_id = ? AND voter = ?", propertyID, proposalID, voter).
		First(&vote).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &vote, nil
}

// ProposalCount returns how many proposals a property has.
func (s *Service) ProposalCount(ctx context.Context, propertyID uint64) (uint64, error) {
	return database.CurrentSequence(s.Runner.Conn(ctx), sequenceName(propertyID))
}

func (s *Service) checkProperty(ctx context.Context, propertyID uint64) error {
	ok, err := s.Properties.Exists(ctx, propertyID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidPropertyID
	}
	return nil
}

func loadProposal(tx *gorm.DB, propertyID, proposalID uint64) (*domain.Proposal, error) {
	var proposal domain.Proposal
	if err := tx.Where("property_id = ? AND proposal_id = ?", propertyID, proposalID).First(&proposal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProposalNotFound
		}
		return nil, err
	}
	return &proposal, nil
}

func hasVoted(tx *gorm.DB, propertyID, proposalID uint64, voter domain.Address) (bool, error) {
	var count int64
	if err := tx.Model(&domain.ProposalVote{}).
		Where("property_id = ? AND proposal_id = ? AND voter = ?", propertyID, proposalID, voter).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
