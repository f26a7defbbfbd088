package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Error kinds. Handlers map these to status codes; specific errors wrap exactly one kind.
var (
	ErrPrecondition       = errors.New("precondition-failed")
	ErrNotFound           = errors.New("not-found")
	ErrForbidden          = errors.New("access-denied")
	ErrNoContentAvailable = errors.New("no-content-available")
	ErrNoPlayersAvailable = errors.New("no-players-available")
	ErrUnexpectedDatabase = errors.New("unexpected-database-error")
)

func precondition(reason string) error { return fmt.Errorf("%w: %s", ErrPrecondition, reason) }
func notFound(reason string) error     { return fmt.Errorf("%w: %s", ErrNotFound, reason) }
func forbidden(reason string) error    { return fmt.Errorf("%w: %s", ErrForbidden, reason) }

// Registry
var (
	ErrRoomNotFound    = notFound("room-not-found")
	ErrInvalidRoomCode = notFound("invalid-room-code")
	ErrRoomFinished    = precondition("room-finished")
	ErrGameInProgress  = precondition("game-in-progress")
	ErrRoomFull        = precondition("room-full")
	ErrNotAMember      = precondition("not-a-member")
	ErrCannotStart     = precondition("cannot-start-need-3-connected-players")
	ErrNotHost         = forbidden("only-host-can-start")
	ErrNotHostOrAdmin  = forbidden("only-host-or-admin")
	ErrAdminRequired   = forbidden("admin-required")
)

// Orchestrator
var (
	ErrGameNotStarted         = precondition("game-not-started")
	ErrRoundNotFound          = notFound("round-not-found")
	ErrRoundExists            = precondition("round-already-exists")
	ErrNotAnsweringPhase      = precondition("not-in-answering-phase")
	ErrNotDiscussionPhase     = precondition("not-in-discussion-phase")
	ErrNotVotingPhase         = precondition("not-in-voting-phase")
	ErrNotResultsPhase        = precondition("round-not-in-results-phase")
	ErrRoundNotFinished       = precondition("round-not-finished")
	ErrGameNotInProgress      = precondition("game-not-in-progress")
	ErrAccusedNotFound        = notFound("accused-player-not-found")
	ErrSelfVote               = precondition("cannot-vote-for-yourself")
	ErrResultsNotFound        = notFound("results-not-found")
	ErrInvalidPhaseTransition = precondition("invalid-phase-transition")
)

// Identity
var (
	ErrUserNotFound       = notFound("user-not-found")
	ErrDuplicateUser      = precondition("username-or-email-taken")
	ErrInvalidCredentials = errors.New("invalid-credentials")
	ErrInvalidToken       = errors.New("invalid-token")
)

// Content
var ErrUnknownPeriod = precondition("unknown-period")

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// dbError classifies a storage error: record-not-found becomes nf, context errors pass
// through, everything else is wrapped as unexpected.
func dbError(err error, nf error) error {
	switch {
	case err == nil:
		return nil
	case nf != nil && errors.Is(err, gorm.ErrRecordNotFound):
		return nf
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	case errors.Is(err, ErrPrecondition), errors.Is(err, ErrNotFound), errors.Is(err, ErrForbidden),
		errors.Is(err, ErrNoContentAvailable), errors.Is(err, ErrNoPlayersAvailable):
		return err
	default:
		return fmt.Errorf("%w: %w", ErrUnexpectedDatabase, err)
	}
}
