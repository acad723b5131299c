package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/park285/oh-my-chess/internal/fen"
	"github.com/park285/oh-my-chess/internal/movecheck"
	"github.com/park285/oh-my-chess/internal/msgcat"
	"github.com/park285/oh-my-chess/internal/render"
	"github.com/park285/oh-my-chess/internal/rules"
	"github.com/park285/oh-my-chess/pkg/movedto"
)

func decodeBody(ctx *fasthttp.RequestCtx, v any) error {
	if err := json.Unmarshal(ctx.PostBody(), v); err != nil {
		return movedto.DomainError{Code: movedto.CodeBadRequest, Message: "invalid JSON: " + err.Error()}
	}
	return nil
}

// resolveBoard picks the board from an explicit grid, a game state or a FEN,
// in that order.
func resolveBoard(grid movedto.BoardDTO, state *movedto.GameStateDTO, fenStr string) (*rules.Board, error) {
	switch {
	case grid != nil:
		return grid.ToBoard()
	case state != nil:
		gs, err := state.ToGameState()
		if err != nil {
			return nil, err
		}
		return &gs.Board, nil
	case fenStr != "":
		b, _, err := fen.Decode(fenStr)
		if err != nil {
			return nil, movedto.DomainError{Code: movedto.CodeBadFEN, Message: err.Error()}
		}
		return b, nil
	}
	return nil, movedto.DomainError{Code: movedto.CodeBadBoard, Message: "one of board, state or fen is required"}
}

func (s *Server) handleValidate(ctx *fasthttp.RequestCtx) {
	var req movedto.ValidateRequest
	if err := decodeBody(ctx, &req); err != nil {
		s.fail(ctx, err)
		return
	}
	board, err := resolveBoard(req.Board, req.State, req.FEN)
	if err != nil {
		s.fail(ctx, err)
		return
	}
	mover, err := movedto.ParsePlayer(req.Mover)
	if err != nil {
		s.fail(ctx, err)
		return
	}
	if req.Move == nil {
		s.fail(ctx, movedto.DomainError{Code: movedto.CodeBadMove, Message: "move is required"})
		return
	}
	move := req.Move.Move()

	rctx, cancel := s.requestContext()
	defer cancel()
	out, err := s.svc.Check(rctx, movecheck.CheckInput{Board: board, Move: move, Mover: mover})
	if err != nil {
		s.fail(ctx, err)
		return
	}
	resp := movedto.ValidateResponse{
		Legal:   out.Legal,
		Reason:  out.Reason.String(),
		Cached:  out.Cached,
		CheckID: out.CheckID.String(),
	}
	if s.catalog != nil {
		resp.Message = s.catalog.Reason(out.Reason, msgcat.FactsFor(board, move, mover))
	}
	s.writeJSON(ctx, fasthttp.StatusOK, resp)
}

func (s *Server) handlePath(ctx *fasthttp.RequestCtx) {
	var req movedto.PathRequest
	if err := decodeBody(ctx, &req); err != nil {
		s.fail(ctx, err)
		return
	}
	board, err := resolveBoard(req.Board, nil, req.FEN)
	if err != nil {
		s.fail(ctx, err)
		return
	}
	dir, ok := rules.ParseDirection(req.Direction)
	if !ok {
		s.fail(ctx, movedto.DomainError{Code: movedto.CodeBadMove, Message: fmt.Sprintf("unknown direction %q", req.Direction)})
		return
	}
	move := req.Move.Move()
	resp := movedto.PathResponse{Clear: s.svc.PathClear(board, move, dir)}
	if s.catalog != nil {
		resp.Message = s.catalog.Path(resp.Clear, dir, move)
	}
	s.writeJSON(ctx, fasthttp.StatusOK, resp)
}

func (s *Server) handleRender(ctx *fasthttp.RequestCtx) {
	var req movedto.RenderRequest
	if err := decodeBody(ctx, &req); err != nil {
		s.fail(ctx, err)
		return
	}
	board, err := resolveBoard(req.Board, nil, req.FEN)
	if err != nil {
		s.fail(ctx, err)
		return
	}
	opts := render.Options{SquareSize: req.SquareSize, Flip: req.Flip}
	if opts.SquareSize == 0 {
		opts.SquareSize = s.opts.SquareSize
	}
	if opts.SquareSize < render.MinSquareSize || opts.SquareSize > render.MaxSquareSize {
		s.fail(ctx, movedto.DomainError{Code: movedto.CodeBadRequest, Message: fmt.Sprintf("square_size must be between %d and %d", render.MinSquareSize, render.MaxSquareSize)})
		return
	}
	if req.Move != nil {
		m := req.Move.Move()
		opts.Highlight = &m
		opts.Mover = rules.White
		if req.Mover != "" {
			if opts.Mover, err = movedto.ParsePlayer(req.Mover); err != nil {
				s.fail(ctx, err)
				return
			}
		} else if c, ok := board.At(m.From); ok {
			opts.Mover = c.Player
		}
	}
	if req.Select != nil {
		sq := req.Select.Square()
		opts.Select = &sq
	}

	rctx, cancel := s.requestContext()
	defer cancel()
	png, err := s.renderer.RenderPNG(rctx, board, opts)
	if err != nil {
		s.fail(ctx, err)
		return
	}
	ctx.SetStatusCode(fasthttp.StatusOK)
	ctx.SetContentType("image/png")
	ctx.SetBody(png)
}

func (s *Server) handleRecent(ctx *fasthttp.RequestCtx) {
	limit := s.opts.RecentLimit
	if raw := ctx.QueryArgs().Peek("limit"); len(raw) > 0 {
		n, err := fasthttp.ParseUint(raw)
		if err != nil || n == 0 {
			s.fail(ctx, movedto.DomainError{Code: movedto.CodeBadRequest, Message: "limit must be a positive integer"})
			return
		}
		if n < limit {
			limit = n
		}
	}

	rctx, cancel := s.requestContext()
	defer cancel()
	recs, err := s.svc.RecentChecks(rctx, limit)
	if errors.Is(err, movecheck.ErrNoRepository) {
		s.writeError(ctx, fasthttp.StatusNotFound, movedto.DomainError{Code: movedto.CodeNotFound, Message: "check audit is disabled"})
		return
	}
	if err != nil {
		s.fail(ctx, err)
		return
	}
	resp := movedto.RecentChecksResponse{Checks: make([]movedto.CheckRecord, 0, len(recs))}
	for _, r := range recs {
		resp.Checks = append(resp.Checks, movedto.CheckRecord{
			CheckID:     r.CheckID.String(),
			Fingerprint: r.Fingerprint,
			Move:        movedto.MoveFrom(r.Move),
			Mover:       r.Mover.String(),
			Legal:       r.Legal,
			Reason:      r.Reason.String(),
			Cached:      r.Cached,
			CheckedAt:   r.CheckedAt.UTC().Format(time.RFC3339Nano),
		})
	}
	s.writeJSON(ctx, fasthttp.StatusOK, resp)
}
