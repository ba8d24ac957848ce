package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apierrors "github.com/flipcash/partner-portal/pkg/api/errors"
	"github.com/flipcash/partner-portal/pkg/models"
)

// ContentHandler serves the static marketing and policy copy behind the
// public shell. The copy ships with the binary; there is no CMS.
type ContentHandler struct {
	pages map[string]models.ContentPage
}

// NewContentHandler creates a content handler with the built-in pages
func NewContentHandler() *ContentHandler {
	h := &ContentHandler{pages: make(map[string]models.ContentPage)}
	for _, page := range builtinPages {
		h.pages[page.Slug] = page
	}
	return h
}

// Home returns the landing page copy
func (h *ContentHandler) Home(c echo.Context) error {
	return c.JSON(http.StatusOK, h.pages["home"])
}

// Policy returns a policy page by slug
func (h *ContentHandler) Policy(c echo.Context) error {
	page, ok := h.pages[c.Param("slug")]
	if !ok || page.Slug == "home" {
		return apierrors.NotFound(c, "Page not found")
	}
	return c.JSON(http.StatusOK, page)
}

var builtinPages = []models.ContentPage{
	{
		Slug:  "home",
		Title: "Flipcash Partner Portal",
		Sections: []models.ContentSection{
			{
				Title: "Sell devices, settle fast",
				Body:  "Claim buyback leads, dispatch field agents for doorstep inspection and get instant wallet settlement on every completed pickup.",
			},
			{
				Title: "Your field team, managed",
				Body:  "Onboard agents with KYC, track their availability and workload, and reassign pickups in one click when plans change.",
			},
			{
				Title: "Transparent pricing",
				Body:  "Every offer shows the system-calculated price. Counter, accept or reject before the offer window closes.",
			},
		},
	},
	{
		Slug:  "privacy-policy",
		Title: "Privacy Policy",
		Sections: []models.ContentSection{
			{
				Title: "Data we collect",
				Body:  "We collect partner business details, agent KYC documents and transaction records needed to operate the buyback marketplace.",
			},
			{
				Title: "How we use it",
				Body:  "Data is used for lead matching, payment settlement and regulatory compliance. We do not sell partner or customer data.",
			},
		},
	},
	{
		Slug:  "terms",
		Title: "Terms of Service",
		Sections: []models.ContentSection{
			{
				Title: "Partner obligations",
				Body:  "Partners must complete inspections within the committed window and honour accepted offer prices at pickup.",
			},
			{
				Title: "Wallet and settlement",
				Body:  "Wallet top-ups are processed through our payment gateway. Settlements post to the wallet after backend confirmation.",
			},
		},
	},
	{
		Slug:  "refund-policy",
		Title: "Refund Policy",
		Sections: []models.ContentSection{
			{
				Title: "Failed top-ups",
				Body:  "Amounts debited for failed gateway orders are auto-reversed by the gateway within 5-7 business days.",
			},
		},
	},
}
