package entity

import "math/rand"

const (
	StateWaiting = "WAITING"
	StatePlaying = "PLAYING"
	StateEnded   = "ENDED"

	MarkX = "X"
	MarkO = "O"

	EmptyCell = ""

	BoardSize = 3

	// A 3x3 board holds at most nine placements.
	maxRound = 9
)

// MovePolicy selects a move for an automated player. It reports ok as
// false when the board has no empty cell.
type MovePolicy interface {
	Pick(board [3][3]string) (y, x int, ok bool)
}

// Game is the state machine for one 3x3 board. It knows nothing about
// rooms or connections.
type Game struct {
	Board   [3][3]string
	State   string
	Round   int
	Current string
	Winner  string

	// FirstMark and SecondMark are the marks assigned to the room's
	// first and second occupant for the running match.
	FirstMark  string
	SecondMark string

	botMark string
	policy  MovePolicy
}

func NewGame() *Game {
	return &Game{
		State: StateWaiting,
		Round: 1,
	}
}

// StartMatch resets the board and begins a fresh match: marks are
// reassigned at random and either mark may move first. It overwrites
// any prior match unconditionally.
func (that *Game) StartMatch() {
	that.reset()
	that.State = StatePlaying

	if rand.Intn(2) == 0 { //nolint: gosec // it's ok
		that.FirstMark, that.SecondMark = MarkX, MarkO
	} else {
		that.FirstMark, that.SecondMark = MarkO, MarkX
	}

	if rand.Intn(2) == 0 { //nolint: gosec // it's ok
		that.Current = that.FirstMark
	} else {
		that.Current = that.SecondMark
	}
}

// StartMatchWithBot begins a match where the second seat is driven by
// the given policy. If the bot is selected to move first, its move is
// applied before control returns.
func (that *Game) StartMatchWithBot(policy MovePolicy) {
	that.StartMatch()
	that.botMark = that.SecondMark
	that.policy = policy

	if that.Current == that.botMark {
		that.placeByPolicy()
	}
}

// EndMatch force-ends the running match and clears the per-match mark
// assignment. The winner, if any, is preserved.
func (that *Game) EndMatch() {
	that.State = StateEnded
	that.Current = ""
	that.FirstMark = ""
	that.SecondMark = ""
	that.botMark = ""
}

// Place marks the cell at (y, x) with the current mark. It is accepted
// only while the game is playing and the cell is empty; a rejected
// placement never mutates the board. After an accepted placement the
// game either terminates or advances to the next round, which in a bot
// match may resolve further plies synchronously.
func (that *Game) Place(y, x int) bool {
	if !that.IsPlaying() {
		return false
	}

	if y < 0 || y >= BoardSize || x < 0 || x >= BoardSize {
		return false
	}

	if that.Board[y][x] != EmptyCell {
		return false
	}

	that.Board[y][x] = that.Current
	that.advance()

	return true
}

func (that *Game) IsWaiting() bool {
	return that.State == StateWaiting
}

func (that *Game) IsPlaying() bool {
	return that.State == StatePlaying
}

func (that *Game) IsEnded() bool {
	return that.State == StateEnded
}

// IsBotMatch reports whether the running or just-ended match is driven
// by a move policy on the second seat.
func (that *Game) IsBotMatch() bool {
	return that.policy != nil
}

// Policy returns the move policy of a bot match, if any.
func (that *Game) Policy() MovePolicy {
	return that.policy
}

func (that *Game) reset() {
	that.Board = [3][3]string{}
	that.State = StateWaiting
	that.Round = 1
	that.Current = ""
	that.Winner = ""
	that.FirstMark = ""
	that.SecondMark = ""
	that.botMark = ""
	that.policy = nil
}

// advance evaluates termination after a placement and either ends the
// match or moves to the next round.
func (that *Game) advance() {
	if winner := that.lineWinner(); winner != EmptyCell {
		that.Winner = winner
		that.EndMatch()
		return
	}

	if that.Round == maxRound {
		// full board, no line: draw
		that.EndMatch()
		return
	}

	that.Round++
	that.Current = toggleMark(that.Current)

	if that.policy != nil && that.Current == that.botMark {
		that.placeByPolicy()
	}
}

// lineWinner scans lines in fixed order: rows top to bottom, columns
// left to right, then the two diagonals. The first satisfied line wins.
func (that *Game) lineWinner() string {
	for y := 0; y < BoardSize; y++ {
		if m := that.Board[y][0]; m != EmptyCell && m == that.Board[y][1] && m == that.Board[y][2] {
			return m
		}
	}

	for x := 0; x < BoardSize; x++ {
		if m := that.Board[0][x]; m != EmptyCell && m == that.Board[1][x] && m == that.Board[2][x] {
			return m
		}
	}

	if m := that.Board[2][0]; m != EmptyCell && m == that.Board[1][1] && m == that.Board[0][2] {
		return m
	}

	if m := that.Board[0][0]; m != EmptyCell && m == that.Board[1][1] && m == that.Board[2][2] {
		return m
	}

	return EmptyCell
}

func (that *Game) placeByPolicy() {
	if y, x, ok := that.policy.Pick(that.Board); ok {
		that.Place(y, x)
	}
}

func toggleMark(mark string) string {
	if mark == MarkX {
		return MarkO
	}
	return MarkX
}
