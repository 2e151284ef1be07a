package approval

import "github.com/mmynk/freightledger/internal/models"

// DocumentPolicy lists the paperwork an approver should expect before paying
// a carrier. It is advisory: missing documents produce warnings, never errors,
// and approval proceeds on the approver's judgment.
type DocumentPolicy struct{}

// Warnings returns one message per missing document, in a fixed order.
func (DocumentPolicy) Warnings(docs models.Documents) []string {
	var warnings []string
	if !docs.BOLReceived {
		warnings = append(warnings, "bill of lading not received")
	}
	if !docs.PODReceived {
		warnings = append(warnings, "proof of delivery not received")
	}
	if !docs.RateConfirmationSigned {
		warnings = append(warnings, "rate confirmation not signed")
	}
	if !docs.CarrierInvoiceReceived {
		warnings = append(warnings, "carrier invoice not received")
	}
	return warnings
}
