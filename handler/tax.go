package handler

import (
	"context"
	"net/http"

	"github.com/AnnaCarter465/taxpadi/logger"
	"github.com/AnnaCarter465/taxpadi/tax"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

type ClassifyRequest struct {
	Turnover    *Amount `json:"turnover" validate:"required"`
	FixedAssets *Amount `json:"fixedAssets" validate:"required"`
}

type ClassifyResponse struct {
	Status  tax.CompanyStatus `json:"status"`
	Message string            `json:"message"`
}

type StatusResponse struct {
	Status tax.CompanyStatus `json:"status"`
}

type LevyRequest struct {
	AssessableProfit *Amount `json:"assessableProfit" validate:"required"`
	Status           string  `json:"status" validate:"omitempty,oneof=UNKNOWN SMALL MEDIUM_LARGE"`
}

type LevyResponse struct {
	Status           tax.CompanyStatus `json:"status"`
	AssessableProfit float64           `json:"assessableProfit"`
	DevelopmentLevy  float64           `json:"developmentLevy"`
	CITPayable       float64           `json:"citPayable"`
	WithholdingRate  float64           `json:"withholdingRate"`
	Message          string            `json:"message"`
}

type PayeRequest struct {
	MonthlySalary *Amount `json:"monthlySalary" validate:"required"`
}

type Deductions struct {
	Paye        float64 `json:"paye"`
	Pension     float64 `json:"pension"`
	HousingFund float64 `json:"housingFund"`
	NetPay      float64 `json:"netPay"`
}

type TaxLevel struct {
	Level   string  `json:"level"`
	Taxable float64 `json:"taxable"`
	Tax     float64 `json:"tax"`
}

type PayeResponse struct {
	GrossAnnual   float64    `json:"grossAnnual"`
	Relief        float64    `json:"relief"`
	TaxableIncome float64    `json:"taxableIncome"`
	Annual        Deductions `json:"annual"`
	Monthly       Deductions `json:"monthly"`
	TaxLevel      []TaxLevel `json:"taxLevel"`
}

type PitRequest struct {
	AnnualIncome *Amount `json:"annualIncome" validate:"required"`
}

type PitResponse struct {
	AnnualIncome float64 `json:"annualIncome"`
	Tax          float64 `json:"tax"`
	Exempt       bool    `json:"exempt"`
	Message      string  `json:"message,omitempty"`
}

type CompanyDB interface {
	GetCompanyStatus(ctx context.Context) (tax.CompanyStatus, error)
	SetCompanyStatus(ctx context.Context, status tax.CompanyStatus) error
}

type TaxHandler struct {
	vl  *validator.Validate
	db  CompanyDB
	log zerolog.Logger
}

func NewTaxHandler(vl *validator.Validate, db CompanyDB) *TaxHandler {
	return &TaxHandler{vl, db, logger.WithComponent("tax-handler")}
}

func verdict(status tax.CompanyStatus) string {
	switch status {
	case tax.StatusSmall:
		return "You are a Small Company. You are EXEMPT from Company Income Tax (CIT), Capital Gains Tax (CGT) " +
			"and the 4% Development Levy. Your primary obligation is to file returns to prove your status."
	case tax.StatusMediumLarge:
		return "You are a Medium/Large Company. Your Company Income Tax (CIT) rate is 30% and you are " +
			"required to pay the 4% Development Levy."
	default:
		return "Your company has not been classified yet."
	}
}

func (t *TaxHandler) Classify(c echo.Context) error {
	var req ClassifyRequest

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseMsg{
			Message: "Bad request",
		})
	}

	if err := t.vl.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseMsg{
			Message: "Bad request",
		})
	}

	status := tax.Classify(req.Turnover.value(), req.FixedAssets.value())

	if err := t.db.SetCompanyStatus(c.Request().Context(), status); err != nil {
		t.log.Error().Err(err).Msg("failed to record company status")
		return c.JSON(http.StatusInternalServerError, ResponseMsg{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, &ClassifyResponse{
		Status:  status,
		Message: verdict(status),
	})
}

func (t *TaxHandler) CompanyStatus(c echo.Context) error {
	status, err := t.db.GetCompanyStatus(c.Request().Context())
	if err != nil {
		t.log.Error().Err(err).Msg("failed to read company status")
		return c.JSON(http.StatusInternalServerError, ResponseMsg{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, &StatusResponse{Status: status})
}

// Levy uses the status in the request when given, otherwise the last
// recorded classification.
func (t *TaxHandler) Levy(c echo.Context) error {
	var req LevyRequest

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseMsg{
			Message: "Bad request",
		})
	}

	if err := t.vl.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseMsg{
			Message: "Bad request",
		})
	}

	status, _ := tax.ParseCompanyStatus(req.Status)

	if req.Status == "" {
		var err error

		status, err = t.db.GetCompanyStatus(c.Request().Context())
		if err != nil {
			t.log.Error().Err(err).Msg("failed to read company status")
			return c.JSON(http.StatusInternalServerError, ResponseMsg{
				Message: "Internal server error",
			})
		}
	}

	profit := req.AssessableProfit.value()

	resp := &LevyResponse{
		Status:           status,
		AssessableProfit: profit,
		DevelopmentLevy:  tax.ComputeLevy(profit, status),
		CITPayable:       tax.ComputeCIT(profit, status),
	}

	switch status {
	case tax.StatusMediumLarge:
		resp.WithholdingRate = tax.WithholdingRate
		resp.Message = "A flat 2% WHT applies to goods and services. As a Medium/Large company you must deduct it from payments to your vendors."
	case tax.StatusSmall:
		resp.Message = "As a Small Company, you are EXEMPT from the 4% Development Levy and from deducting Withholding Tax (WHT)."
	default:
		resp.Message = "Classify your company first to see whether the Development Levy applies."
	}

	return c.JSON(http.StatusOK, resp)
}

func deductions(b tax.Breakdown) Deductions {
	return Deductions{
		Paye:        b.Tax,
		Pension:     b.Pension,
		HousingFund: b.HousingFund,
		NetPay:      b.NetPay,
	}
}

func (t *TaxHandler) Paye(c echo.Context) error {
	var req PayeRequest

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseMsg{
			Message: "Bad request",
		})
	}

	if err := t.vl.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseMsg{
			Message: "Bad request",
		})
	}

	result := tax.ComputePayroll(req.MonthlySalary.value())

	var levels []TaxLevel

	for _, s := range result.Statements {
		levels = append(levels, TaxLevel{
			Level:   s.Rate.Label,
			Taxable: s.Taxable,
			Tax:     s.Tax,
		})
	}

	return c.JSON(http.StatusOK, &PayeResponse{
		GrossAnnual:   result.Gross,
		Relief:        result.Relief,
		TaxableIncome: result.TaxableIncome,
		Annual:        deductions(result.Breakdown()),
		Monthly:       deductions(result.Monthly()),
		TaxLevel:      levels,
	})
}

func (t *TaxHandler) Pit(c echo.Context) error {
	var req PitRequest

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseMsg{
			Message: "Bad request",
		})
	}

	if err := t.vl.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseMsg{
			Message: "Bad request",
		})
	}

	estimate := tax.EstimatePersonalTax(req.AnnualIncome.value())

	resp := &PitResponse{
		AnnualIncome: estimate.Income,
		Tax:          estimate.Tax,
		Exempt:       estimate.Exempt,
	}

	if estimate.Exempt {
		resp.Message = "Your income is below the " + tax.FormatAmount(tax.ExemptionThreshold) +
			" threshold, so you are exempt from Personal Income Tax."
	}

	return c.JSON(http.StatusOK, resp)
}
