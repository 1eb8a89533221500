package constants

// FallbackCategory is assigned when no vendor override or keyword matches.
const FallbackCategory = "Other"

// NonInvoiceCategory labels files judged not to be invoices.
const NonInvoiceCategory = "Non-Invoice"

// NonInvoiceFolder is the holding area under the output root for
// files judged not to be invoices.
const NonInvoiceFolder = "Non-Invoice"
