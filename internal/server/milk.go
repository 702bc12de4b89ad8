package server

import (
	"net/http"

	ledgerdomain "github.com/doodhly/doodhly/internal/ledger/domain"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type dailyEntryItemRequest struct {
	CustomerID    string           `json:"customer_id"`
	MorningMilk   *decimal.Decimal `json:"morning_milk"`
	EveningMilk   *decimal.Decimal `json:"evening_milk"`
	MilkType      *string          `json:"milk_type"`
	PricePerLiter *decimal.Decimal `json:"price_per_liter"`
}

type upsertDailyEntriesRequest struct {
	Date    string                  `json:"date"`
	Entries []dailyEntryItemRequest `json:"entries"`
}

func (s *Server) UpsertDailyEntries(c *gin.Context) {
	var req upsertDailyEntriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		AbortWithError(c, newValidationError("date", "invalid_entry_date", "invalid date"))
		return
	}

	entries := make([]ledgerdomain.EntryUpsert, 0, len(req.Entries))
	for _, item := range req.Entries {
		entries = append(entries, ledgerdomain.EntryUpsert{
			CustomerID:    item.CustomerID,
			EntryDate:     date,
			MorningMilk:   item.MorningMilk,
			EveningMilk:   item.EveningMilk,
			MilkType:      optionalMilkType(item.MilkType),
			PricePerLiter: item.PricePerLiter,
		})
	}

	resp, err := s.ledgerSvc.UpsertMany(c.Request.Context(), entries)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetEntriesByDate(c *gin.Context) {
	date, err := parseDate(c.Param("date"))
	if err != nil {
		AbortWithError(c, newValidationError("date", "invalid_entry_date", "invalid date"))
		return
	}

	resp, err := s.ledgerSvc.QueryByDate(c.Request.Context(), date)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
