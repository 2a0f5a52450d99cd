package service

import "github.com/rocketscienceinc/gameroom-backend/internal/entity"

// BotPolicy is the stock move-selection strategy: take the first empty
// cell, scanning rows top to bottom. Alternative strategies only need
// to implement entity.MovePolicy.
type BotPolicy struct{}

func NewBotPolicy() *BotPolicy {
	return &BotPolicy{}
}

func (that *BotPolicy) Pick(board [3][3]string) (int, int, bool) {
	for y := 0; y < entity.BoardSize; y++ {
		for x := 0; x < entity.BoardSize; x++ {
			if board[y][x] == entity.EmptyCell {
				return y, x, true
			}
		}
	}

	return 0, 0, false
}
