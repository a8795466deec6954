package core

// DraftLine is one inventory pick in an AI-interpreted bill draft.
// Items are identified the way the shop floor does: category plus serial number.
type DraftLine struct {
	Category string `json:"category" jsonschema_description:"The inventory category exactly as listed (e.g. 'Ring', 'Necklace')"`
	SerialNo string `json:"serial_no" jsonschema_description:"The 4-digit serial number of the item within its category (e.g. '0007')"`
	Quantity int    `json:"quantity" jsonschema_description:"Number of units of this item. Use 1 if unspecified."`
}

// DraftProposal is the AI-generated bill draft. Amounts are decimal strings.
type DraftProposal struct {
	CustomerID            string      `json:"customer_id" jsonschema_description:"The exact customer id from the provided customer directory (e.g. 'C0004')"`
	BillType              string      `json:"bill_type" jsonschema_description:"Either 'ESTIMATE' or 'INVOICE'. Use 'ESTIMATE' unless the user clearly made a sale."`
	Lines                 []DraftLine `json:"lines" jsonschema_description:"The items being billed"`
	LessWeight            string      `json:"less_weight" jsonschema_description:"Grams deducted before pricing as a decimal string. Use '0' if none."`
	ExtraChargePercentage string      `json:"extra_charge_percentage" jsonschema_description:"Making-charge percentage as a decimal string. Use '' to apply the shop default."`
	BargainedAmount       string      `json:"bargained_amount" jsonschema_description:"Flat discount as a decimal string. Use '0' if none."`
	AmountPaid            string      `json:"amount_paid" jsonschema_description:"Amount paid now as a decimal string. Use '0' if nothing was paid."`
	Confidence            float64     `json:"confidence" jsonschema_description:"Confidence score between 0.0 and 1.0"`
	Reasoning             string      `json:"reasoning" jsonschema_description:"Explanation of how the instruction maps to this draft"`
}

// DraftClarification is returned when the instruction is ambiguous.
type DraftClarification struct {
	Message string `json:"message" jsonschema_description:"A question asking the operator for the missing details (e.g. 'Which customer is this bill for?')"`
}

// DraftAgentResponse wraps the AI output: exactly one of Proposal or Clarification is set.
type DraftAgentResponse struct {
	IsClarificationRequest bool                `json:"is_clarification_request" jsonschema_description:"Set to true ONLY if you lack enough information to draft the bill."`
	Clarification          *DraftClarification `json:"clarification,omitempty" jsonschema_description:"Required if is_clarification_request is true."`
	Proposal               *DraftProposal      `json:"proposal,omitempty" jsonschema_description:"Required if is_clarification_request is false."`
}
