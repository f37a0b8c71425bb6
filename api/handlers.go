package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"zlpix/domain/entities"
	"zlpix/domain/services"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

const dateLayout = "2006-01-02"

type settleRequest struct {
	Numbers []string `json:"numbers" binding:"required"`
}

type placeTicketRequest struct {
	UserID   int64    `json:"user_id" binding:"required"`
	Numbers  []string `json:"numbers" binding:"required"`
	Stake    int64    `json:"stake" binding:"required"`
	DrawDate string   `json:"draw_date" binding:"required"`
}

func (s *Server) healthz(c *gin.Context) {
	if err := s.db.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// settleDraw manually triggers settlement of a draw date with the supplied
// official numbers.
func (s *Server) settleDraw(c *gin.Context) {
	drawDate, err := time.Parse(dateLayout, c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid draw date, expected YYYY-MM-DD"})
		return
	}

	var req settleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	// A malformed result must never reach the recorder: the worker would
	// refetch it ahead of the real feed and fail settlement every tick
	if _, err := services.ExtractDozens(req.Numbers); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Record the result so the background worker sees it too
	if s.resultRecorder != nil {
		s.resultRecorder.Set(entities.NormalizeDrawDate(drawDate), req.Numbers)
	}

	ctx := c.Request.Context()
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start settlement"})
		return
	}

	service := services.NewSettlementService(
		uow.DrawRepository(),
		uow.TicketRepository(),
		uow.WalletRepository(),
		uow.WalletEntryRepository(),
		uow.PrizePoolRepository(),
		uow.EventBus(),
		s.poolBase,
		s.poolRollover,
	)

	result, err := service.SettleDraw(ctx, drawDate, req.Numbers)
	if err != nil {
		uow.Rollback()

		switch {
		case errors.Is(err, services.ErrInvalidOfficialNumbers):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, services.ErrDrawAlreadySettled):
			c.JSON(http.StatusConflict, gin.H{"status": "already_settled", "message": "draw was already processed"})
		case errors.Is(err, services.ErrNoTicketsForDraw):
			c.JSON(http.StatusOK, gin.H{"status": "no_tickets", "message": "no tickets to settle for this draw"})
		default:
			log.WithError(err).Error("Manual settlement failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "settlement failed"})
		}
		return
	}

	if err := uow.Commit(); err != nil {
		log.WithError(err).Error("Failed to commit manual settlement")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "settlement failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":           "settled",
		"draw_date":        result.DrawDate.Format(dateLayout),
		"official_result":  result.OfficialResult,
		"dozens":           result.Dozens,
		"ticket_count":     result.TicketCount,
		"winner_count":     result.WinnerCount,
		"prize_per_winner": result.PrizePerWinner,
		"pool_after":       result.PoolAfter,
		"rolled_over":      result.RolledOver,
	})
}

// getDraw returns the draw record and settlement summary for a date
func (s *Server) getDraw(c *gin.Context) {
	drawDate, err := time.Parse(dateLayout, c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid draw date, expected YYYY-MM-DD"})
		return
	}

	ctx := c.Request.Context()
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read draw"})
		return
	}
	defer uow.Rollback()

	draw, err := uow.DrawRepository().GetByDate(ctx, entities.NormalizeDrawDate(drawDate))
	if err != nil {
		log.WithError(err).Error("Failed to read draw")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read draw"})
		return
	}
	if draw == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "draw not found"})
		return
	}

	resp := gin.H{
		"draw_date": draw.DrawDate.Format(dateLayout),
		"settled":   draw.IsSettled(),
	}
	if draw.IsSettled() {
		resp["official_result"] = draw.OfficialResult
		resp["winner_count"] = draw.WinnerCount
		if draw.PrizePerWinner != nil {
			resp["prize_per_winner"] = *draw.PrizePerWinner
		}
		resp["settled_at"] = draw.SettledAt
	}
	c.JSON(http.StatusOK, resp)
}

// getPool returns the current prize pool amount in centavos
func (s *Server) getPool(c *gin.Context) {
	ctx := c.Request.Context()
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read prize pool"})
		return
	}
	defer uow.Rollback()

	amount, err := uow.PrizePoolRepository().Get(ctx)
	if err != nil {
		log.WithError(err).Error("Failed to read prize pool")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read prize pool"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"amount": amount})
}

// placeTicket creates an ACTIVE ticket for an upcoming draw
func (s *Server) placeTicket(c *gin.Context) {
	var req placeTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	drawDate, err := time.Parse(dateLayout, req.DrawDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid draw date, expected YYYY-MM-DD"})
		return
	}

	ctx := c.Request.Context()
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to place ticket"})
		return
	}

	service := services.NewTicketService(
		uow.TicketRepository(),
		uow.DrawRepository(),
		uow.PrizePoolRepository(),
	)

	ticket, err := service.PlaceTicket(ctx, req.UserID, req.Numbers, req.Stake, drawDate)
	if err != nil {
		uow.Rollback()

		if errors.Is(err, services.ErrTicketSalesClosed) {
			c.JSON(http.StatusConflict, gin.H{"error": "ticket sales are closed for this draw"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := uow.Commit(); err != nil {
		log.WithError(err).Error("Failed to commit ticket placement")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to place ticket"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":        ticket.ID,
		"user_id":   ticket.UserID,
		"numbers":   ticket.Numbers,
		"stake":     ticket.Stake,
		"draw_date": ticket.DrawDate.Format(dateLayout),
		"status":    ticket.Status,
	})
}

// getTicket returns a single ticket by ID
func (s *Server) getTicket(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ticket id"})
		return
	}

	ctx := c.Request.Context()
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read ticket"})
		return
	}
	defer uow.Rollback()

	ticket, err := uow.TicketRepository().GetByID(ctx, id)
	if err != nil {
		log.WithError(err).Error("Failed to read ticket")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read ticket"})
		return
	}
	if ticket == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "ticket not found"})
		return
	}

	resp := gin.H{
		"id":        ticket.ID,
		"user_id":   ticket.UserID,
		"numbers":   ticket.Numbers,
		"stake":     ticket.Stake,
		"draw_date": ticket.DrawDate.Format(dateLayout),
		"status":    ticket.Status,
		"pending":   ticket.IsPending(),
	}
	if ticket.PrizeAmount != nil {
		resp["prize_amount"] = *ticket.PrizeAmount
	}
	c.JSON(http.StatusOK, resp)
}

// getUserTickets returns a user's tickets for a draw date
func (s *Server) getUserTickets(c *gin.Context) {
	var query struct {
		UserID   int64  `form:"user_id" binding:"required"`
		DrawDate string `form:"draw_date" binding:"required"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id and draw_date are required"})
		return
	}

	drawDate, err := time.Parse(dateLayout, query.DrawDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid draw date, expected YYYY-MM-DD"})
		return
	}

	ctx := c.Request.Context()
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read tickets"})
		return
	}
	defer uow.Rollback()

	service := services.NewTicketService(
		uow.TicketRepository(),
		uow.DrawRepository(),
		uow.PrizePoolRepository(),
	)

	tickets, err := service.GetUserTickets(ctx, query.UserID, drawDate)
	if err != nil {
		log.WithError(err).Error("Failed to read user tickets")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read tickets"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"tickets": tickets})
}
