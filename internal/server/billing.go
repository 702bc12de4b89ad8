package server

import (
	"errors"
	"io"
	"net/http"
	"strings"

	billingdomain "github.com/doodhly/doodhly/internal/billing/domain"
	customerdomain "github.com/doodhly/doodhly/internal/customer/domain"
	"github.com/doodhly/doodhly/internal/providers/pdf"
	reconciledomain "github.com/doodhly/doodhly/internal/reconcile/domain"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type billEntryRequest struct {
	Day         int              `json:"day"`
	MorningMilk *decimal.Decimal `json:"morning_milk"`
	EveningMilk *decimal.Decimal `json:"evening_milk"`
}

type createBillRequest struct {
	CustomerID   string             `json:"customer_id"`
	Month        string             `json:"month"`
	CustomerName string             `json:"customer_name"`
	MilkType     string             `json:"milk_type"`
	RatePerLiter decimal.Decimal    `json:"rate_per_liter"`
	TotalMilk    decimal.Decimal    `json:"total_milk"`
	TotalAmount  decimal.Decimal    `json:"total_amount"`
	MilkEntries  []billEntryRequest `json:"milk_entries"`
}

func (s *Server) CreateBill(c *gin.Context) {
	var req createBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	bill, err := s.billingSvc.Create(c.Request.Context(), billingdomain.CreateBillRequest{
		CustomerID:   req.CustomerID,
		Month:        req.Month,
		CustomerName: req.CustomerName,
		MilkType:     customerdomain.MilkType(strings.TrimSpace(req.MilkType)),
		RatePerLiter: req.RatePerLiter,
		TotalMilk:    req.TotalMilk,
		TotalAmount:  req.TotalAmount,
		MilkEntries:  toBillEntries(req.MilkEntries),
	})
	if err != nil {
		var exists *billingdomain.AlreadyExistsError
		if errors.As(err, &exists) {
			c.JSON(http.StatusConflict, gin.H{
				"error": errorPayload{
					Type:    "duplicate_key",
					Message: "bill already exists for customer and month",
				},
				"data": exists.Existing,
			})
			return
		}
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": bill})
}

func (s *Server) ListBills(c *gin.Context) {
	resp, err := s.billingSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// GetBillByCustomerMonth is a probe: a missing bill is an expected
// answer, not an error, so the response stays 200 with null data.
func (s *Server) GetBillByCustomerMonth(c *gin.Context) {
	bill, err := s.billingSvc.GetByCustomerMonth(c.Request.Context(), c.Param("customerId"), c.Param("month"))
	if err != nil {
		if errors.Is(err, billingdomain.ErrNotFound) {
			c.JSON(http.StatusOK, gin.H{"data": nil})
			return
		}
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": bill})
}

func (s *Server) GetMilkEntries(c *gin.Context) {
	customerID := strings.TrimSpace(c.Query("customerId"))
	if customerID == "" {
		AbortWithError(c, newValidationError("customerId", "invalid_customer_id", "invalid customerId"))
		return
	}

	start, err := parseDate(c.Query("start"))
	if err != nil {
		AbortWithError(c, newValidationError("start", "invalid_entry_date", "invalid start"))
		return
	}
	end, err := parseDate(c.Query("end"))
	if err != nil {
		AbortWithError(c, newValidationError("end", "invalid_entry_date", "invalid end"))
		return
	}

	// end is inclusive on the wire; the store range is half-open.
	resp, err := s.ledgerSvc.Query(c.Request.Context(), customerID, start, end.AddDate(0, 0, 1))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type updateBillRequest struct {
	CustomerID   string              `json:"customer_id"`
	Month        string              `json:"month"`
	CustomerName *string             `json:"customer_name"`
	MilkType     *string             `json:"milk_type"`
	RatePerLiter *decimal.Decimal    `json:"rate_per_liter"`
	TotalMilk    *decimal.Decimal    `json:"total_milk"`
	TotalAmount  *decimal.Decimal    `json:"total_amount"`
	IsPaid       *bool               `json:"is_paid"`
	MilkEntries  *[]billEntryRequest `json:"milk_entries"`
}

func (s *Server) UpdateBill(c *gin.Context) {
	var req updateBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	update := billingdomain.UpdateBillRequest{
		BillID:       c.Param("id"),
		CustomerName: req.CustomerName,
		MilkType:     optionalMilkType(req.MilkType),
		RatePerLiter: req.RatePerLiter,
		TotalMilk:    req.TotalMilk,
		TotalAmount:  req.TotalAmount,
		IsPaid:       req.IsPaid,
	}
	if req.MilkEntries != nil {
		entries := toBillEntries(*req.MilkEntries)
		update.MilkEntries = &entries
	}

	var sync *reconciledomain.SyncPayload
	if req.MilkEntries != nil && req.CustomerID != "" && req.Month != "" {
		sync = &reconciledomain.SyncPayload{
			CustomerID: req.CustomerID,
			Month:      req.Month,
			Entries:    toDayQuantities(*req.MilkEntries),
		}
	}

	resp, err := s.reconcileSvc.Update(c.Request.Context(), update, sync)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type syncMilkEntriesRequest struct {
	CustomerID  string             `json:"customer_id"`
	Month       string             `json:"month"`
	MilkEntries []billEntryRequest `json:"milk_entries"`
}

func (s *Server) SyncBillMilkEntries(c *gin.Context) {
	var req syncMilkEntriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.reconcileSvc.SyncEntries(c.Request.Context(), reconciledomain.SyncPayload{
		CustomerID: req.CustomerID,
		Month:      req.Month,
		Entries:    toDayQuantities(req.MilkEntries),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) MarkBillPaid(c *gin.Context) {
	bill, err := s.billingSvc.MarkPaid(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": bill})
}

type paymentStatusRequest struct {
	IsPaid *bool `json:"is_paid"`
}

func (s *Server) SetBillPaymentStatus(c *gin.Context) {
	var req paymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.IsPaid == nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	bill, err := s.billingSvc.SetPaymentStatus(c.Request.Context(), c.Param("id"), *req.IsPaid)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": bill})
}

func (s *Server) MonthlyReport(c *gin.Context) {
	bills, err := s.billingSvc.MonthlyReport(c.Request.Context(), c.Query("month"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": bills})
}

func (s *Server) AccountingReport(c *gin.Context) {
	resp, err := s.billingSvc.AccountingReport(c.Request.Context(), billingdomain.AccountingFilter{
		Month: c.Query("month"),
		Year:  c.Query("year"),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) RenderBillPDF(c *gin.Context) {
	bill, err := s.billingSvc.GetByBillID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	reader, err := s.pdfProvider.GenerateBill(c.Request.Context(), billPDFData(bill))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	doc, err := io.ReadAll(reader)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+bill.BillID+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", doc)
}

func billPDFData(bill billingdomain.Bill) pdf.BillData {
	status := "Unpaid"
	if bill.IsPaid {
		status = "Paid"
	}

	days := make([]pdf.BillDay, 0, len(bill.MilkEntries))
	for _, entry := range bill.MilkEntries {
		days = append(days, pdf.BillDay{
			Day:         entry.Day,
			MorningMilk: entry.MorningMilk.String(),
			EveningMilk: entry.EveningMilk.String(),
			TotalMilk:   entry.TotalMilk.String(),
		})
	}

	return pdf.BillData{
		BillNumber:    bill.BillID,
		Month:         bill.Month,
		IssuedOn:      bill.CreatedAt.Format(dateOnlyLayout),
		CustomerName:  bill.CustomerName,
		CustomerID:    bill.CustomerID,
		MilkType:      string(bill.MilkType),
		RatePerLiter:  bill.RatePerLiter.String(),
		TotalMilk:     bill.TotalMilk.String(),
		TotalAmount:   bill.TotalAmount.String(),
		PaymentStatus: status,
		Days:          days,
	}
}

func toBillEntries(items []billEntryRequest) []billingdomain.BillEntry {
	entries := make([]billingdomain.BillEntry, 0, len(items))
	for _, item := range items {
		entry := billingdomain.BillEntry{Day: item.Day}
		if item.MorningMilk != nil {
			entry.MorningMilk = *item.MorningMilk
		}
		if item.EveningMilk != nil {
			entry.EveningMilk = *item.EveningMilk
		}
		entries = append(entries, entry)
	}
	return entries
}

func toDayQuantities(items []billEntryRequest) []reconciledomain.DayQuantities {
	entries := make([]reconciledomain.DayQuantities, 0, len(items))
	for _, item := range items {
		entries = append(entries, reconciledomain.DayQuantities{
			Day:         item.Day,
			MorningMilk: item.MorningMilk,
			EveningMilk: item.EveningMilk,
		})
	}
	return entries
}
