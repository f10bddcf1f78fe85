package analyzer

// germanRecognizers extend the universal set with German-specific identifier
// formats. Context-aware variants score higher than bare number shapes.
func germanRecognizers() []Recognizer {
	return append(universalRecognizers(), []Recognizer{
		{
			EntityType: "DE_TAX_ID",
			Patterns: []Pattern{
				mustPattern("tax_id_flexible", `\b\d{2}[\s\-.]?\d{3}[\s\-.]?\d{3}[\s\-.]?\d{3}\b`, 0.9),
				mustPattern("tax_id_context", `(?i)\b(?:steuer[\s\-]?id|steuernummer|identifikationsnummer)[\s:]*\d{2}[\s\-.]?\d{3}[\s\-.]?\d{3}[\s\-.]?\d{3}\b`, 0.98),
			},
		},
		{
			EntityType: "DE_PENSION_INSURANCE",
			Patterns: []Pattern{
				mustPattern("pension_insurance", `\b\d{2}[\s\-]?\d{6}[\s\-]?[A-Z][\s\-]?\d{3}\b`, 0.85),
				mustPattern("pension_insurance_context", `(?i)\b(?:rentenversicherungsnummer|rvnr|sozialversicherungsnummer)[\s:]*\d{2}[\s\-]?\d{6}[\s\-]?[A-Z][\s\-]?\d{3}\b`, 0.95),
			},
		},
		{
			EntityType: "DE_HEALTH_INSURANCE",
			Patterns: []Pattern{
				mustPattern("health_insurance", `\b[A-Z]\d{9}\b`, 0.8),
				mustPattern("health_insurance_context", `(?i)\b(?:krankenversicherungsnummer|kvnr|versichertennummer)[\s:]*[A-Z][\s\-]?\d{9}\b`, 0.95),
			},
		},
		{
			EntityType: "DE_VAT_ID",
			Patterns: []Pattern{
				mustPattern("vat_id", `\bDE\d{9}\b`, 0.9),
			},
		},
		{
			EntityType: "DE_COMPANY_TAX",
			Patterns: []Pattern{
				mustPattern("company_tax", `\b\d{3}/\d{3}/\d{5}\b`, 0.85),
			},
		},
		{
			EntityType: "DE_COMMERCIAL_REGISTER",
			Patterns: []Pattern{
				mustPattern("commercial_register", `\bHR[AB]\s?\d{4,6}\b`, 0.9),
			},
		},
		{
			EntityType: "DE_IBAN",
			Patterns: []Pattern{
				mustPattern("german_iban", `\bDE\d{2}[\s]?(?:\d{4}[\s]?){4}\d{2}\b`, 0.95),
				mustPattern("german_iban_compact", `\bDE\d{20}\b`, 0.95),
			},
		},
		{
			EntityType: "BIC_SWIFT",
			Patterns: []Pattern{
				mustPattern("bic", `\b[A-Z]{4}DE[A-Z0-9]{2}(?:[A-Z0-9]{3})?\b`, 0.85),
			},
		},
		{
			EntityType: "DE_PHONE_NUMBER",
			Patterns: []Pattern{
				mustPattern("german_phone", `\b(?:\+49|0049|0)[\s\-/]?\d{2,5}[\s\-/]?\d{4,10}\b`, 0.75),
			},
		},
		{
			EntityType: "DE_STREET_ADDRESS",
			Patterns: []Pattern{
				mustPattern("street_address", `\b[A-ZÄÖÜ][a-zäöüß]+(?:straße|strasse|gasse|weg|platz|allee|ring)\s+\d{1,4}[a-z]?\b`, 0.85),
			},
		},
		{
			EntityType: "DE_POSTAL_CODE",
			Patterns: []Pattern{
				mustPattern("postal_code_context", `(?i)\b(?:plz|postleitzahl)[\s:]*\d{5}\b`, 0.9),
			},
		},
		{
			EntityType: "DE_ID_CARD",
			Patterns: []Pattern{
				mustPattern("id_card", `\b[LMNPRTVWXY]\d{8}\b`, 0.8),
				mustPattern("id_card_context", `(?i)\b(?:personalausweis(?:nummer)?|ausweisnummer)[\s:]*[A-Z0-9]{9,10}\b`, 0.95),
			},
		},
		{
			EntityType: "DE_PASSPORT",
			Patterns: []Pattern{
				mustPattern("passport_context", `(?i)\b(?:reisepass(?:nummer)?|passnummer)[\s:]*[CFGHJK][A-Z0-9]{8}\b`, 0.95),
			},
		},
		{
			EntityType: "DE_DRIVING_LICENSE",
			Patterns: []Pattern{
				mustPattern("driving_license_context", `(?i)\b(?:führerschein(?:nummer)?|fuehrerschein(?:nummer)?)[\s:]*[A-Z0-9]{9,11}\b`, 0.9),
			},
		},
		{
			EntityType: "DE_RESIDENCE_PERMIT",
			Patterns: []Pattern{
				mustPattern("residence_permit_context", `(?i)\b(?:aufenthaltstitel|aufenthaltserlaubnis)[\s:]*[A-Z]\d{9}[A-Z]\d\b`, 0.9),
			},
		},
		{
			EntityType: "DE_BANK_ACCOUNT",
			Patterns: []Pattern{
				mustPattern("bank_account_context", `(?i)\b(?:kontonummer|konto[\s\-]?nr)[\s:.]*\d{6,10}\b`, 0.9),
			},
		},
		{
			EntityType: "DE_SOCIAL_SECURITY",
			Patterns: []Pattern{
				mustPattern("social_security", `\b\d{2}\d{6}[A-Z]\d{3}\b`, 0.8),
			},
		},
		{
			EntityType: "DE_DATE_OF_BIRTH",
			Patterns: []Pattern{
				mustPattern("dob_dotted", `\b(?:0?[1-9]|[12]\d|3[01])\.(?:0?[1-9]|1[012])\.(?:19|20)\d{2}\b`, 0.7),
				mustPattern("dob_context", `(?i)\b(?:geboren\s+am|geburtsdatum)[\s:]*(?:0?[1-9]|[12]\d|3[01])\.(?:0?[1-9]|1[012])\.(?:19|20)\d{2}\b`, 0.95),
			},
		},
		{
			EntityType: "DE_PERSON_NAME",
			Patterns: []Pattern{
				mustPattern("german_honorific_name", `\b(?:Herr|Frau|Dr|Prof)\.?\s+[A-ZÄÖÜ][a-zäöüß]+(?:\s+[A-ZÄÖÜ][a-zäöüß]+)?`, 0.8),
			},
		},
		{
			EntityType: "DE_CREDIT_CARD",
			Patterns: []Pattern{
				mustPattern("german_credit_card_context", `(?i)\b(?:kreditkarte(?:nnummer)?)[\s:]*(?:\d{4}[\s\-]?){3}\d{4}\b`, 0.9),
			},
		},
		{
			EntityType: "DE_CUSTOMER_ID",
			Patterns: []Pattern{
				mustPattern("customer_id", `\bCUST-\d{6}\b`, 0.85),
				mustPattern("customer_id_context", `(?i)\b(?:kundennummer|kunden[\s\-]?nr)[\s:.]*[A-Z0-9\-]{5,12}\b`, 0.9),
			},
		},
		{
			EntityType: "DE_EXPIRY_DATE",
			Patterns: []Pattern{
				mustPattern("expiry_context", `(?i)\b(?:gültig\s+bis|ablaufdatum)[\s:]*(?:0?[1-9]|1[012])/\d{2,4}\b`, 0.85),
			},
		},
		{
			EntityType: "DE_STREET_NAME",
			Patterns: []Pattern{
				mustPattern("street_name", `\b[A-ZÄÖÜ][a-zäöüß]+(?:straße|strasse|gasse|weg|platz)\b`, 0.6),
			},
		},
	}...)
}
