package dataprocessing

import "shipreport/pkg/contracts/domain"

// ResolvePaymentType returns COD when any handling entry is COD, Prepaid otherwise
func ResolvePaymentType(handlings []domain.SpecialHandling) domain.PaymentType {
	for _, h := range handlings {
		if h.Type == domain.SpecialHandlingCOD {
			return domain.PaymentCOD
		}
	}
	return domain.PaymentPrepaid
}
