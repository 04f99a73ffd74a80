package enums

import "fmt"

// BusinessType classifies the buyer organization.
type BusinessType string

const (
	BusinessTypeRetailer     BusinessType = "retailer"
	BusinessTypeWholesaler   BusinessType = "wholesaler"
	BusinessTypeDistributor  BusinessType = "distributor"
	BusinessTypeManufacturer BusinessType = "manufacturer"
)

func (b BusinessType) IsValid() bool {
	switch b {
	case BusinessTypeRetailer, BusinessTypeWholesaler, BusinessTypeDistributor, BusinessTypeManufacturer:
		return true
	}
	return false
}

// BusinessSize buckets the organization headcount.
type BusinessSize string

const (
	BusinessSizeSmall      BusinessSize = "small"
	BusinessSizeMedium     BusinessSize = "medium"
	BusinessSizeLarge      BusinessSize = "large"
	BusinessSizeEnterprise BusinessSize = "enterprise"
)

func (b BusinessSize) IsValid() bool {
	switch b {
	case BusinessSizeSmall, BusinessSizeMedium, BusinessSizeLarge, BusinessSizeEnterprise:
		return true
	}
	return false
}

// PaymentTerms captures the negotiated invoice terms for a buyer.
type PaymentTerms string

const (
	PaymentTermsNet30 PaymentTerms = "net30"
	PaymentTermsNet60 PaymentTerms = "net60"
	PaymentTermsNet90 PaymentTerms = "net90"
	PaymentTermsCOD   PaymentTerms = "cod"
)

func (p PaymentTerms) IsValid() bool {
	switch p {
	case PaymentTermsNet30, PaymentTermsNet60, PaymentTermsNet90, PaymentTermsCOD:
		return true
	}
	return false
}

func ParsePaymentTerms(value string) (PaymentTerms, error) {
	terms := PaymentTerms(value)
	if !terms.IsValid() {
		return "", fmt.Errorf("invalid payment terms %q", value)
	}
	return terms, nil
}
