package booking

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Package is the ticket tier picked on the booking form. Prices are per attendee.
type Package string

const (
	PackageStandard Package = "standard"
	PackagePremium  Package = "premium"
	PackageVIP      Package = "vip"
)

type PackageInfo struct {
	ID          Package         `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
}

var packages = []PackageInfo{
	{ID: PackageStandard, Name: "Standard", Price: decimal.Zero, Description: "Basic event access"},
	{ID: PackagePremium, Name: "Premium", Price: decimal.NewFromInt(25), Description: "Priority seating + refreshments"},
	{ID: PackageVIP, Name: "VIP", Price: decimal.NewFromInt(50), Description: "Premium + networking session"},
}

func Packages() []PackageInfo {
	return append([]PackageInfo(nil), packages...)
}

// ParsePackage maps "" to the standard tier.
func ParsePackage(s string) (Package, error) {
	if s == "" {
		return PackageStandard, nil
	}
	for _, p := range packages {
		if string(p.ID) == s {
			return p.ID, nil
		}
	}
	return "", fmt.Errorf("unknown package: %s", s)
}

const priceScale = 2

// TotalPrice is the per-attendee package price times attendees, rounded to cents.
func TotalPrice(p Package, attendees int) (decimal.Decimal, error) {
	for _, info := range packages {
		if info.ID == p {
			return info.Price.Mul(decimal.NewFromInt(int64(attendees))).Round(priceScale), nil
		}
	}
	return decimal.Zero, fmt.Errorf("unknown package: %s", p)
}
