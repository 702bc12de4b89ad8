package server

import (
	"net/http"
	"strings"

	customerdomain "github.com/doodhly/doodhly/internal/customer/domain"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type createCustomerRequest struct {
	Name               string           `json:"name"`
	Address            string           `json:"address"`
	Phone              string           `json:"phone"`
	DeliverySequence   int              `json:"delivery_sequence"`
	MilkType           string           `json:"milk_type"`
	MilkTimePreference string           `json:"milk_time_preference"`
	PricePerLiter      decimal.Decimal  `json:"price_per_liter"`
	MorningMilk        *decimal.Decimal `json:"morning_milk"`
	EveningMilk        *decimal.Decimal `json:"evening_milk"`
}

func (s *Server) CreateCustomer(c *gin.Context) {
	var req createCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.customerSvc.Create(c.Request.Context(), customerdomain.CreateCustomerRequest{
		Name:               req.Name,
		Address:            req.Address,
		Phone:              req.Phone,
		DeliverySequence:   req.DeliverySequence,
		MilkType:           customerdomain.MilkType(strings.TrimSpace(req.MilkType)),
		MilkTimePreference: customerdomain.MilkTime(strings.TrimSpace(req.MilkTimePreference)),
		PricePerLiter:      req.PricePerLiter,
		MorningMilk:        req.MorningMilk,
		EveningMilk:        req.EveningMilk,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListCustomers(c *gin.Context) {
	activeOnly, err := parseOptionalBool(c.Query("activeOnly"))
	if err != nil {
		AbortWithError(c, newValidationError("activeOnly", "invalid_active_only", "invalid activeOnly"))
		return
	}

	resp, err := s.customerSvc.List(c.Request.Context(), customerdomain.ListCustomerRequest{
		ActiveOnly: activeOnly != nil && *activeOnly,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetCustomer(c *gin.Context) {
	resp, err := s.customerSvc.GetByCustomerID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type updateCustomerRequest struct {
	Name               *string          `json:"name"`
	Address            *string          `json:"address"`
	Phone              *string          `json:"phone"`
	DeliverySequence   *int             `json:"delivery_sequence"`
	MilkType           *string          `json:"milk_type"`
	MilkTimePreference *string          `json:"milk_time_preference"`
	PricePerLiter      *decimal.Decimal `json:"price_per_liter"`
	MorningMilk        *decimal.Decimal `json:"morning_milk"`
	EveningMilk        *decimal.Decimal `json:"evening_milk"`
	IsActive           *bool            `json:"is_active"`
}

func (s *Server) UpdateCustomer(c *gin.Context) {
	var req updateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.customerSvc.Update(c.Request.Context(), customerdomain.UpdateCustomerRequest{
		CustomerID:         c.Param("id"),
		Name:               req.Name,
		Address:            req.Address,
		Phone:              req.Phone,
		DeliverySequence:   req.DeliverySequence,
		MilkType:           optionalMilkType(req.MilkType),
		MilkTimePreference: optionalMilkTime(req.MilkTimePreference),
		PricePerLiter:      req.PricePerLiter,
		MorningMilk:        req.MorningMilk,
		EveningMilk:        req.EveningMilk,
		IsActive:           req.IsActive,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteCustomer(c *gin.Context) {
	if err := s.customerSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}

type sequenceUpdateRequest struct {
	CustomerID       string `json:"customer_id"`
	DeliverySequence *int   `json:"delivery_sequence"`
}

func (s *Server) ReorderCustomers(c *gin.Context) {
	var req []sequenceUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	updates := make([]customerdomain.SequenceUpdate, 0, len(req))
	for _, item := range req {
		updates = append(updates, customerdomain.SequenceUpdate{
			CustomerID:       item.CustomerID,
			DeliverySequence: item.DeliverySequence,
		})
	}

	resp, err := s.customerSvc.Reorder(c.Request.Context(), updates)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func optionalMilkType(value *string) *customerdomain.MilkType {
	if value == nil {
		return nil
	}
	parsed := customerdomain.MilkType(strings.TrimSpace(*value))
	return &parsed
}

func optionalMilkTime(value *string) *customerdomain.MilkTime {
	if value == nil {
		return nil
	}
	parsed := customerdomain.MilkTime(strings.TrimSpace(*value))
	return &parsed
}
