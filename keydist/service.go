// Package keydist releases content decryption keys to wallets the contract
// says are entitled to them, and records keys for newly minted content.
package keydist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/ruteri/creator-hub-gateway/interfaces"
	"github.com/ruteri/creator-hub-gateway/metrics"
)

// MintRequest describes content to mint and the key that decrypts it.
type MintRequest struct {
	Creator          interfaces.WalletAddress
	CID              string
	Price            int64
	IsForSubscribers bool
	AESKey           string
}

// MintResult is the outcome of a successful mint.
type MintResult struct {
	ContentID interfaces.ContentID
	CLIOutput string
	Record    *interfaces.ContentKeyRecord
}

// Service composes the contract client and the secret store.
type Service struct {
	hub   interfaces.CreatorHub
	store interfaces.SecretStore
	log   *slog.Logger
}

// NewService creates a key distribution service.
func NewService(hub interfaces.CreatorHub, store interfaces.SecretStore, log *slog.Logger) *Service {
	return &Service{hub: hub, store: store, log: log}
}

// ContentKey returns the key record for contentID if wallet has access to it.
//
// The contract is asked first; the store is read only after it grants
// access. Nothing is cached, so revocations take effect on the next request.
func (s *Service) ContentKey(ctx context.Context, wallet interfaces.WalletAddress, contentID interfaces.ContentID) (*interfaces.ContentKeyRecord, error) {
	allowed, _, err := s.hub.HasAccess(ctx, wallet, contentID)
	if err != nil {
		metrics.ObserveKeyDistribution(metrics.OutcomeError)
		return nil, fmt.Errorf("access check for content %s: %w", contentID, err)
	}
	if !allowed {
		metrics.ObserveKeyDistribution(metrics.OutcomeDenied)
		s.log.Info("Key request denied",
			slog.String("wallet", wallet.String()),
			slog.String("contentID", contentID.String()))
		return nil, interfaces.ErrAccessDenied
	}

	record, err := s.store.GetByContentID(ctx, contentID)
	if errors.Is(err, interfaces.ErrKeyNotFound) {
		metrics.ObserveKeyDistribution(metrics.OutcomeMissing)
		s.log.Warn("Access granted but no key stored",
			slog.String("wallet", wallet.String()),
			slog.String("contentID", contentID.String()))
		return nil, err
	}
	if err != nil {
		metrics.ObserveKeyDistribution(metrics.OutcomeError)
		return nil, fmt.Errorf("key lookup for content %s: %w", contentID, err)
	}

	metrics.ObserveKeyDistribution(metrics.OutcomeGranted)
	s.log.Info("Key released",
		slog.String("wallet", wallet.String()),
		slog.String("contentID", contentID.String()))

	return record, nil
}

// MintContent mints content on-chain and stores its key under the assigned id.
//
// The two steps are not atomic. If the key cannot be stored after a
// successful mint, the error is returned together with the minted id, and
// the orphaned content id is logged.
func (s *Service) MintContent(ctx context.Context, req MintRequest) (*MintResult, error) {
	contentID, output, err := s.hub.MintContent(ctx, req.Creator, req.CID, req.Price, req.IsForSubscribers)
	if err != nil {
		return nil, err
	}

	result := &MintResult{ContentID: contentID, CLIOutput: output}

	record, err := s.store.Put(ctx, contentID, req.AESKey)
	if err != nil {
		s.log.Error("Content minted but key not stored",
			slog.String("contentID", contentID.String()),
			slog.String("creator", req.Creator.String()),
			"err", err)
		return result, fmt.Errorf("store key for minted content %s: %w", contentID, err)
	}
	result.Record = record

	s.log.Info("Content minted",
		slog.String("contentID", contentID.String()),
		slog.String("creator", req.Creator.String()),
		slog.Bool("forSubscribers", req.IsForSubscribers))

	return result, nil
}
