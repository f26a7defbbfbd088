package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"numberhunt/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	DefaultEventLimit = 20
	maxEventLimit     = 100
)

// LeaderboardRecomputer is notified after a game ends.
type LeaderboardRecomputer interface {
	Recompute(ctx context.Context) error
}

type GameService struct {
	db          *gorm.DB
	content     ContentProvider
	rng         Randomizer
	leaderboard LeaderboardRecomputer
	now         func() time.Time
}

func NewGameService(db *gorm.DB, content ContentProvider, rng Randomizer, leaderboard LeaderboardRecomputer) *GameService {
	return &GameService{
		db:          db,
		content:     content,
		rng:         rng,
		leaderboard: leaderboard,
		now:         time.Now,
	}
}

type SubmitAnswerRequest struct {
	Answer *int `json:"answer" binding:"required"`
}

type SubmitVoteRequest struct {
	AccusedID uint `json:"accused_player_id" binding:"required"`
}

type QuestionView struct {
	Text      string `json:"text"`
	MinAnswer int    `json:"min_answer"`
	MaxAnswer int    `json:"max_answer"`
}

type PlayerScore struct {
	ID          uint   `json:"id"`
	Nickname    string `json:"nickname"`
	Score       int    `json:"score"`
	IsConnected bool   `json:"is_connected"`
}

// RoundView is the current round as one player may see it. The imposter is shown the
// decoy question; nothing else in the view differs by role.
type RoundView struct {
	RoundNumber         int           `json:"round_number"`
	TotalRounds         int           `json:"total_rounds"`
	Phase               string        `json:"phase"`
	Role                string        `json:"role"`
	Question            QuestionView  `json:"question"`
	StartedAt           time.Time     `json:"started_at"`
	DiscussionStartedAt *time.Time    `json:"discussion_started_at"`
	VotingStartedAt     *time.Time    `json:"voting_started_at"`
	HasAnswered         bool          `json:"has_answered"`
	HasVoted            bool          `json:"has_voted"`
	AnswerCount         int64         `json:"answer_count"`
	VoteCount           int64         `json:"vote_count"`
	ConnectedCount      int           `json:"connected_count"`
	Players             []PlayerScore `json:"players"`
}

type PlayerAward struct {
	PlayerID    uint   `json:"player_id"`
	Nickname    string `json:"nickname"`
	Role        string `json:"role"`
	Result      string `json:"result"`
	Points      int    `json:"points_earned"`
	WasVotedOut bool   `json:"was_voted_out"`
	CorrectVote bool   `json:"correct_vote"`
}

// RoundSummary is the round_ended event payload.
type RoundSummary struct {
	RoundNumber             int           `json:"round_number"`
	ImposterID              uint          `json:"imposter_id"`
	ImposterNickname        string        `json:"imposter_nickname"`
	MostVotedPlayerNickname *string       `json:"most_voted_player_nickname"`
	Tally                   Tally         `json:"tally"`
	Awards                  []PlayerAward `json:"awards"`
}

type AnswerReceipt struct {
	Phase         string `json:"phase"`
	PhaseAdvanced bool   `json:"phase_advanced"`
}

type VoteReceipt struct {
	VotingComplete bool          `json:"voting_complete"`
	Results        *RoundSummary `json:"results,omitempty"`
}

type AnswerView struct {
	PlayerID   uint   `json:"player_id"`
	Nickname   string `json:"player_nickname"`
	Value      int    `json:"answer"`
	IsImposter bool   `json:"is_imposter"`
}

type RoundResults struct {
	RoundNumber       int           `json:"round_number"`
	Phase             string        `json:"phase"`
	QuestionText      string        `json:"question_text"`
	DecoyQuestionText string        `json:"decoy_question_text"`
	Answers           []AnswerView  `json:"answers_with_players"`
	Results           RoundSummary  `json:"results"`
	Scores            []PlayerScore `json:"scores"`
	IsLastRound       bool          `json:"is_last_round"`
}

type AdvanceResult struct {
	GameEnded   bool          `json:"game_ended"`
	RoundNumber int           `json:"round_number"`
	FinalScores []PlayerScore `json:"final_scores,omitempty"`
}

// StartGame moves a waiting room into play and opens round 1. Only the host may start.
func (s *GameService) StartGame(ctx context.Context, roomID uuid.UUID, userID uint) (*models.Round, error) {
	var round *models.Round

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		room, err := lockRoom(tx, roomID)
		if err != nil {
			return err
		}
		if room.HostID != userID {
			return ErrNotHost
		}

		connected, err := connectedPlayers(tx, roomID)
		if err != nil {
			return err
		}
		if !CanStart(room, len(connected)) {
			switch room.Status {
			case models.RoomFinished:
				return ErrRoomFinished
			case models.RoomInProgress:
				return ErrGameInProgress
			default:
				return ErrCannotStart
			}
		}

		now := s.now()
		if err := tx.Model(room).Updates(map[string]interface{}{
			"status":        models.RoomInProgress,
			"started_at":    now,
			"current_round": 1,
		}).Error; err != nil {
			return err
		}

		if err := recordEvent(tx, roomID, models.EventGameStarted, nil, nil, gin.H{
			"total_rounds": room.TotalRounds,
			"player_count": len(connected),
		}); err != nil {
			return err
		}

		round, err = s.startRound(tx, room, 1)
		return err
	})
	if err != nil {
		return nil, dbError(err, ErrRoomNotFound)
	}

	log.Info().Str("room", roomID.String()).Uint("host", userID).Msg("game started")
	return round, nil
}

// startRound draws content and an imposter and creates the round in the answering phase.
// The unique (room_id, number) index rejects a second creation of the same round.
func (s *GameService) startRound(tx *gorm.DB, room *models.Room, number int) (*models.Round, error) {
	connected, err := connectedPlayers(tx, room.ID)
	if err != nil {
		return nil, err
	}
	if len(connected) == 0 {
		return nil, ErrNoPlayersAvailable
	}

	question, err := s.content.DrawActiveQuestion(tx)
	if err != nil {
		return nil, err
	}
	decoy, err := s.content.DrawActiveDecoy(tx)
	if err != nil {
		return nil, err
	}
	imposter := connected[s.rng.IntN(len(connected))]

	round := models.Round{
		RoomID:          room.ID,
		Number:          number,
		QuestionID:      question.ID,
		DecoyQuestionID: decoy.ID,
		ImposterID:      imposter.ID,
		Phase:           models.PhaseAnswering,
		StartedAt:       s.now(),
	}
	if err := tx.Create(&round).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrRoundExists
		}
		return nil, err
	}

	if err := recordEvent(tx, room.ID, models.EventRoundStarted, nil, intPtr(number), gin.H{
		"round_number": number,
		"player_count": len(connected),
	}); err != nil {
		return nil, err
	}

	log.Info().Str("room", room.ID.String()).Int("round", number).Msg("round started")
	return &round, nil
}

// activeRound loads the room, the caller's seat and the current round. With lock set the
// round row is held FOR UPDATE until the transaction ends, and the room must still be in
// play: a closed room keeps its round readable but frozen.
func activeRound(tx *gorm.DB, roomID uuid.UUID, userID uint, lock bool) (*models.Room, *models.Player, *models.Round, error) {
	var room models.Room
	if err := tx.First(&room, "id = ?", roomID).Error; err != nil {
		return nil, nil, nil, dbError(err, ErrRoomNotFound)
	}
	player, err := findMember(tx, roomID, userID)
	if err != nil {
		return nil, nil, nil, err
	}
	if room.CurrentRound == 0 {
		return nil, nil, nil, ErrGameNotStarted
	}
	if lock && room.Status != models.RoomInProgress {
		return nil, nil, nil, ErrGameNotInProgress
	}

	q := tx
	if lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var round models.Round
	if err := q.Where("room_id = ? AND number = ?", roomID, room.CurrentRound).First(&round).Error; err != nil {
		return nil, nil, nil, dbError(err, ErrRoundNotFound)
	}
	return &room, player, &round, nil
}

func (s *GameService) SubmitAnswer(ctx context.Context, roomID uuid.UUID, userID uint, value int) (*AnswerReceipt, error) {
	receipt := &AnswerReceipt{Phase: models.PhaseAnswering}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, player, round, err := activeRound(tx, roomID, userID, true)
		if err != nil {
			return err
		}
		if round.Phase != models.PhaseAnswering {
			return ErrNotAnsweringPhase
		}

		answer := models.Answer{RoundID: round.ID, PlayerID: player.ID, Value: value}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "round_id"}, {Name: "player_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).Create(&answer).Error; err != nil {
			return err
		}
		if err := tx.Model(player).Update("last_active", s.now()).Error; err != nil {
			return err
		}
		if err := recordEvent(tx, roomID, models.EventAnswerSubmitted, &player.ID, intPtr(round.Number), gin.H{
			"nickname": player.Nickname,
		}); err != nil {
			return err
		}

		var answers int64
		if err := tx.Model(&models.Answer{}).Where("round_id = ?", round.ID).Count(&answers).Error; err != nil {
			return err
		}
		connected, err := connectedPlayers(tx, roomID)
		if err != nil {
			return err
		}
		if answers < int64(len(connected)) {
			return nil
		}

		if err := setPhase(tx, round, models.PhaseDiscussion, s.now()); err != nil {
			return err
		}
		receipt.Phase = models.PhaseDiscussion
		receipt.PhaseAdvanced = true

		return recordEvent(tx, roomID, models.EventDiscussionStarted, nil, intPtr(round.Number), gin.H{
			"total_answers": answers,
		})
	})
	if err != nil {
		return nil, dbError(err, ErrRoomNotFound)
	}
	return receipt, nil
}

// StartVoting closes discussion. Any member may trigger it.
func (s *GameService) StartVoting(ctx context.Context, roomID uuid.UUID, userID uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, player, round, err := activeRound(tx, roomID, userID, true)
		if err != nil {
			return err
		}
		if round.Phase != models.PhaseDiscussion {
			return ErrNotDiscussionPhase
		}

		if err := setPhase(tx, round, models.PhaseVoting, s.now()); err != nil {
			return err
		}
		return recordEvent(tx, roomID, models.EventVotingStarted, &player.ID, intPtr(round.Number), gin.H{
			"started_by": player.Nickname,
		})
	})
	return dbError(err, ErrRoomNotFound)
}

// SubmitVote records an accusation. The vote that reaches quorum tallies and scores the
// round in the same transaction; a racing vote waits on the round lock and then finds
// the round already in results.
func (s *GameService) SubmitVote(ctx context.Context, roomID uuid.UUID, userID uint, accusedID uint) (*VoteReceipt, error) {
	receipt := &VoteReceipt{}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		room, voter, round, err := activeRound(tx, roomID, userID, true)
		if err != nil {
			return err
		}
		if round.Phase != models.PhaseVoting {
			return ErrNotVotingPhase
		}
		if accusedID == voter.ID {
			return ErrSelfVote
		}

		var accused models.Player
		if err := tx.Where("id = ? AND room_id = ?", accusedID, roomID).First(&accused).Error; err != nil {
			return dbError(err, ErrAccusedNotFound)
		}

		vote := models.Vote{RoundID: round.ID, VoterID: voter.ID, AccusedID: accused.ID}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "round_id"}, {Name: "voter_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"accused_id", "updated_at"}),
		}).Create(&vote).Error; err != nil {
			return err
		}
		if err := recordEvent(tx, roomID, models.EventVoteSubmitted, &voter.ID, intPtr(round.Number), gin.H{
			"nickname": voter.Nickname,
		}); err != nil {
			return err
		}

		var votes int64
		if err := tx.Model(&models.Vote{}).Where("round_id = ?", round.ID).Count(&votes).Error; err != nil {
			return err
		}
		connected, err := connectedPlayers(tx, roomID)
		if err != nil {
			return err
		}
		if votes < int64(len(connected)) {
			return nil
		}

		summary, err := s.endRound(tx, room, round, connected)
		if err != nil {
			return err
		}
		receipt.VotingComplete = true
		receipt.Results = summary
		return nil
	})
	if err != nil {
		return nil, dbError(err, ErrRoomNotFound)
	}
	return receipt, nil
}

// endRound tallies the votes, scores every connected player, and moves the round to
// results. It must run inside the vote transaction so scoring is all or nothing.
func (s *GameService) endRound(tx *gorm.DB, room *models.Room, round *models.Round, connected []models.Player) (*RoundSummary, error) {
	var votes []models.Vote
	if err := tx.Where("round_id = ?", round.ID).Order("id").Find(&votes).Error; err != nil {
		return nil, err
	}
	edges := make([]VoteEdge, len(votes))
	for i, v := range votes {
		edges[i] = VoteEdge{VoterID: v.VoterID, AccusedID: v.AccusedID}
	}
	tally := Tabulate(round.ImposterID, edges)

	byID := make(map[uint]models.Player, len(connected))
	ids := make([]uint, len(connected))
	for i, p := range connected {
		byID[p.ID] = p
		ids[i] = p.ID
	}
	awards := Score(round.ImposterID, tally, ids)

	summary := &RoundSummary{
		RoundNumber: round.Number,
		ImposterID:  round.ImposterID,
		Tally:       tally,
		Awards:      make([]PlayerAward, 0, len(awards)),
	}

	var imposter models.Player
	if err := tx.First(&imposter, round.ImposterID).Error; err != nil {
		return nil, err
	}
	var question models.Question
	if err := tx.Unscoped().Select("category").First(&question, round.QuestionID).Error; err != nil {
		return nil, err
	}
	summary.ImposterNickname = imposter.Nickname
	if tally.Winner != nil {
		var voted models.Player
		if err := tx.Select("nickname").First(&voted, *tally.Winner).Error; err != nil {
			return nil, err
		}
		summary.MostVotedPlayerNickname = &voted.Nickname
	}

	for _, a := range awards {
		player := byID[a.PlayerID]
		if err := applyAward(tx, room.ID, round.Number, question.Category, player, a); err != nil {
			return nil, err
		}
		summary.Awards = append(summary.Awards, PlayerAward{
			PlayerID:    a.PlayerID,
			Nickname:    player.Nickname,
			Role:        a.Role,
			Result:      a.Result,
			Points:      a.Points,
			WasVotedOut: a.WasVotedOut,
			CorrectVote: a.CorrectVote,
		})
	}

	if err := setPhase(tx, round, models.PhaseResults, s.now()); err != nil {
		return nil, err
	}
	if err := recordEvent(tx, room.ID, models.EventRoundEnded, nil, intPtr(round.Number), summary); err != nil {
		return nil, err
	}

	log.Info().
		Str("room", room.ID.String()).
		Int("round", round.Number).
		Bool("caught", tally.ImposterCaught).
		Int("votes", tally.TotalVotes).
		Msg("round ended")
	return summary, nil
}

// phaseStamps names the timestamp column written when a round enters a phase.
var phaseStamps = map[string]string{
	models.PhaseDiscussion: "discussion_started_at",
	models.PhaseVoting:     "voting_started_at",
	models.PhaseResults:    "finished_at",
}

// setPhase is the only writer of round.phase. It refuses anything but the next phase in
// order, so a round can never skip ahead or move backwards.
func setPhase(tx *gorm.DB, round *models.Round, to string, now time.Time) error {
	if !models.NextPhase(round.Phase, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidPhaseTransition, round.Phase, to)
	}

	updates := map[string]interface{}{"phase": to}
	if column, ok := phaseStamps[to]; ok {
		updates[column] = now
	}
	if err := tx.Model(round).Updates(updates).Error; err != nil {
		return err
	}
	round.Phase = to
	return nil
}

// applyAward credits one player: room score, identity counters and the ledger row.
func applyAward(tx *gorm.DB, roomID uuid.UUID, roundNumber int, category string, player models.Player, a Award) error {
	if a.Points != 0 {
		if err := tx.Model(&models.Player{}).Where("id = ?", player.ID).
			Update("score", gorm.Expr("score + ?", a.Points)).Error; err != nil {
			return err
		}
	}

	counters := map[string]interface{}{
		"total_score": gorm.Expr("total_score + ?", a.Points),
	}
	if a.Won() {
		counters["total_wins"] = gorm.Expr("total_wins + 1")
		if a.Role == models.RoleImposter {
			counters["total_imposter_wins"] = gorm.Expr("total_imposter_wins + 1")
		} else {
			counters["total_detective_wins"] = gorm.Expr("total_detective_wins + 1")
		}
	}
	if err := tx.Model(&models.User{}).Where("id = ?", player.UserID).Updates(counters).Error; err != nil {
		return err
	}

	return tx.Create(&models.Outcome{
		UserID:      player.UserID,
		PlayerID:    player.ID,
		RoomID:      roomID,
		RoundNumber: roundNumber,
		Nickname:    player.Nickname,
		Role:        a.Role,
		Category:    category,
		Result:      a.Result,
		Points:      a.Points,
		WasVotedOut: a.WasVotedOut,
		CorrectVote: a.CorrectVote,
	}).Error
}

// Advance continues past a round in results: either the next round opens or, after the
// last round, the game ends and the leaderboard is recomputed.
func (s *GameService) Advance(ctx context.Context, roomID uuid.UUID, userID uint) (*AdvanceResult, error) {
	result := &AdvanceResult{}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		room, err := lockRoom(tx, roomID)
		if err != nil {
			return err
		}
		if room.Status != models.RoomInProgress {
			return ErrGameNotInProgress
		}
		if _, _, _, err := activeRound(tx, roomID, userID, false); err != nil {
			return err
		}

		var round models.Round
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("room_id = ? AND number = ?", roomID, room.CurrentRound).
			First(&round).Error; err != nil {
			return dbError(err, ErrRoundNotFound)
		}
		if round.Phase != models.PhaseResults {
			return ErrRoundNotFinished
		}
		if err := setPhase(tx, &round, models.PhaseFinished, s.now()); err != nil {
			return err
		}

		if room.CurrentRound >= room.TotalRounds {
			scores, err := s.endGame(tx, room)
			if err != nil {
				return err
			}
			result.GameEnded = true
			result.RoundNumber = room.CurrentRound
			result.FinalScores = scores
			return nil
		}

		next := room.CurrentRound + 1
		if err := tx.Model(room).Update("current_round", next).Error; err != nil {
			return err
		}
		if _, err := s.startRound(tx, room, next); err != nil {
			return err
		}
		result.RoundNumber = next
		return nil
	})
	if err != nil {
		return nil, dbError(err, ErrRoomNotFound)
	}

	if result.GameEnded && s.leaderboard != nil {
		if err := s.leaderboard.Recompute(ctx); err != nil {
			log.Error().Err(err).Str("room", roomID.String()).Msg("leaderboard recompute after game end failed")
		}
	}
	return result, nil
}

// endGame finishes the room and counts the game once for every member. The unique
// (user_id, room_id) game record keeps total_games from being bumped twice.
func (s *GameService) endGame(tx *gorm.DB, room *models.Room) ([]PlayerScore, error) {
	if err := tx.Model(room).Updates(map[string]interface{}{
		"status":      models.RoomFinished,
		"finished_at": s.now(),
	}).Error; err != nil {
		return nil, err
	}

	var players []models.Player
	if err := tx.Where("room_id = ?", room.ID).Order("score DESC, id").Find(&players).Error; err != nil {
		return nil, err
	}

	finalScores := make(map[string]int, len(players))
	scores := make([]PlayerScore, 0, len(players))
	for _, p := range players {
		record := models.GameRecord{
			UserID:     p.UserID,
			RoomID:     room.ID,
			RoomName:   room.Name,
			Nickname:   p.Nickname,
			FinalScore: p.Score,
		}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&record)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 1 {
			if err := tx.Model(&models.User{}).Where("id = ?", p.UserID).
				Update("total_games", gorm.Expr("total_games + 1")).Error; err != nil {
				return nil, err
			}
		}
		finalScores[p.Nickname] = p.Score
		scores = append(scores, toPlayerScore(p))
	}

	if err := recordEvent(tx, room.ID, models.EventGameEnded, nil, intPtr(room.CurrentRound), gin.H{
		"final_scores": finalScores,
		"total_rounds": room.TotalRounds,
	}); err != nil {
		return nil, err
	}

	log.Info().Str("room", room.ID.String()).Int("players", len(players)).Msg("game ended")
	return scores, nil
}

func (s *GameService) CurrentRound(ctx context.Context, roomID uuid.UUID, userID uint) (*RoundView, error) {
	db := s.db.WithContext(ctx)

	room, player, round, err := activeRound(db, roomID, userID, false)
	if err != nil {
		return nil, err
	}

	view := &RoundView{
		RoundNumber:         round.Number,
		TotalRounds:         room.TotalRounds,
		Phase:               round.Phase,
		Role:                models.RoleDetective,
		StartedAt:           round.StartedAt,
		DiscussionStartedAt: round.DiscussionStartedAt,
		VotingStartedAt:     round.VotingStartedAt,
	}

	if round.ImposterID == player.ID {
		var decoy models.DecoyQuestion
		if err := db.Unscoped().First(&decoy, round.DecoyQuestionID).Error; err != nil {
			return nil, dbError(err, ErrNoContentAvailable)
		}
		view.Role = models.RoleImposter
		view.Question = QuestionView{Text: decoy.Text, MinAnswer: decoy.MinAnswer, MaxAnswer: decoy.MaxAnswer}
	} else {
		var question models.Question
		if err := db.Unscoped().First(&question, round.QuestionID).Error; err != nil {
			return nil, dbError(err, ErrNoContentAvailable)
		}
		view.Question = QuestionView{Text: question.Text, MinAnswer: question.MinAnswer, MaxAnswer: question.MaxAnswer}
	}

	var mine int64
	if err := db.Model(&models.Answer{}).Where("round_id = ? AND player_id = ?", round.ID, player.ID).Count(&mine).Error; err != nil {
		return nil, dbError(err, nil)
	}
	view.HasAnswered = mine > 0
	if err := db.Model(&models.Vote{}).Where("round_id = ? AND voter_id = ?", round.ID, player.ID).Count(&mine).Error; err != nil {
		return nil, dbError(err, nil)
	}
	view.HasVoted = mine > 0

	if err := db.Model(&models.Answer{}).Where("round_id = ?", round.ID).Count(&view.AnswerCount).Error; err != nil {
		return nil, dbError(err, nil)
	}
	if err := db.Model(&models.Vote{}).Where("round_id = ?", round.ID).Count(&view.VoteCount).Error; err != nil {
		return nil, dbError(err, nil)
	}

	players, err := roomScores(db, roomID)
	if err != nil {
		return nil, err
	}
	for _, p := range players {
		if p.IsConnected {
			view.ConnectedCount++
		}
	}
	view.Players = players
	return view, nil
}

// RoundResults returns the scored round. roundNumber 0 means the current round.
func (s *GameService) RoundResults(ctx context.Context, roomID uuid.UUID, userID uint, roundNumber int) (*RoundResults, error) {
	db := s.db.WithContext(ctx)

	room, _, current, err := activeRound(db, roomID, userID, false)
	if err != nil {
		return nil, err
	}

	round := current
	if roundNumber != 0 && roundNumber != current.Number {
		round = &models.Round{}
		if err := db.Where("room_id = ? AND number = ?", roomID, roundNumber).First(round).Error; err != nil {
			return nil, dbError(err, ErrRoundNotFound)
		}
	}
	if round.Phase != models.PhaseResults && round.Phase != models.PhaseFinished {
		return nil, ErrNotResultsPhase
	}

	var event models.Event
	if err := db.Where("room_id = ? AND type = ? AND round_number = ?", roomID, models.EventRoundEnded, round.Number).
		Order("id DESC").First(&event).Error; err != nil {
		return nil, dbError(err, ErrResultsNotFound)
	}
	var summary RoundSummary
	if err := json.Unmarshal(event.Payload, &summary); err != nil {
		return nil, ErrResultsNotFound
	}

	var question models.Question
	if err := db.Unscoped().First(&question, round.QuestionID).Error; err != nil {
		return nil, dbError(err, ErrNoContentAvailable)
	}
	var decoy models.DecoyQuestion
	if err := db.Unscoped().First(&decoy, round.DecoyQuestionID).Error; err != nil {
		return nil, dbError(err, ErrNoContentAvailable)
	}

	var answers []models.Answer
	if err := db.Preload("Player").Where("round_id = ?", round.ID).Order("value, id").Find(&answers).Error; err != nil {
		return nil, dbError(err, nil)
	}
	views := make([]AnswerView, len(answers))
	for i, a := range answers {
		views[i] = AnswerView{
			PlayerID:   a.PlayerID,
			Nickname:   a.Player.Nickname,
			Value:      a.Value,
			IsImposter: a.PlayerID == round.ImposterID,
		}
	}

	scores, err := roomScores(db, roomID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].Score > scores[j].Score })

	return &RoundResults{
		RoundNumber:       round.Number,
		Phase:             round.Phase,
		QuestionText:      question.Text,
		DecoyQuestionText: decoy.Text,
		Answers:           views,
		Results:           summary,
		Scores:            scores,
		IsLastRound:       round.Number >= room.TotalRounds,
	}, nil
}

// RecentEvents lists the room's event log newest first. Only members may read it.
func (s *GameService) RecentEvents(ctx context.Context, roomID uuid.UUID, userID uint, limit int) ([]models.Event, error) {
	db := s.db.WithContext(ctx)

	var room models.Room
	if err := db.Select("id").First(&room, "id = ?", roomID).Error; err != nil {
		return nil, dbError(err, ErrRoomNotFound)
	}
	if _, err := findMember(db, roomID, userID); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = DefaultEventLimit
	}
	if limit > maxEventLimit {
		limit = maxEventLimit
	}

	var events []models.Event
	if err := db.Where("room_id = ?", roomID).Order("created_at DESC, id DESC").Limit(limit).Find(&events).Error; err != nil {
		return nil, dbError(err, nil)
	}
	return events, nil
}

func roomScores(db *gorm.DB, roomID uuid.UUID) ([]PlayerScore, error) {
	var players []models.Player
	if err := db.Where("room_id = ?", roomID).Order("id").Find(&players).Error; err != nil {
		return nil, dbError(err, nil)
	}
	scores := make([]PlayerScore, len(players))
	for i, p := range players {
		scores[i] = toPlayerScore(p)
	}
	return scores, nil
}

func toPlayerScore(p models.Player) PlayerScore {
	return PlayerScore{ID: p.ID, Nickname: p.Nickname, Score: p.Score, IsConnected: p.IsConnected}
}
