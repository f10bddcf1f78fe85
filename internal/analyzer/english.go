package analyzer

// universalRecognizers cover entity types that are not country-specific.
// Scores are deliberately below 1.0 so the caller's confidence threshold
// stays meaningful.
func universalRecognizers() []Recognizer {
	return []Recognizer{
		{
			EntityType: "EMAIL_ADDRESS",
			Patterns: []Pattern{
				mustPattern("email", `\b[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}\b`, 0.95),
			},
		},
		{
			EntityType: "PHONE_NUMBER",
			Patterns: []Pattern{
				mustPattern("intl_phone", `\+\d{1,3}[\s\-.]?\(?\d{1,4}\)?(?:[\s\-.]?\d{2,4}){2,4}`, 0.8),
				mustPattern("us_phone", `\(?\d{3}\)?[\s\-.]\d{3}[\s\-.]\d{4}\b`, 0.7),
			},
		},
		{
			EntityType: "CREDIT_CARD",
			Patterns: []Pattern{
				mustPattern("credit_card", `\b(?:\d{4}[\-\s]?){3}\d{4}\b`, 0.8),
			},
		},
		{
			EntityType: "IP_ADDRESS",
			Patterns: []Pattern{
				mustPattern("ipv4", `\b(?:(?:25[0-5]|2[0-4]\d|1?\d?\d)\.){3}(?:25[0-5]|2[0-4]\d|1?\d?\d)\b`, 0.9),
				mustPattern("ipv6", `\b(?:[0-9a-fA-F]{1,4}:){7}[0-9a-fA-F]{1,4}\b`, 0.9),
			},
		},
		{
			EntityType: "URL",
			Patterns: []Pattern{
				mustPattern("url", `\bhttps?://[^\s<>"']+`, 0.85),
			},
		},
		{
			EntityType: "IBAN_CODE",
			Patterns: []Pattern{
				mustPattern("iban", `\b[A-Z]{2}\d{2}[A-Z0-9]{11,30}\b`, 0.75),
			},
		},
		{
			EntityType: "DATE_TIME",
			Patterns: []Pattern{
				mustPattern("iso_date", `\b\d{4}-\d{2}-\d{2}(?:[T\s]\d{2}:\d{2}(?::\d{2})?)?\b`, 0.6),
				mustPattern("slash_date", `\b\d{1,2}/\d{1,2}/\d{2,4}\b`, 0.5),
			},
		},
		{
			EntityType: "PERSON",
			Patterns: []Pattern{
				mustPattern("honorific_name", `\b(?:Mr|Mrs|Ms|Dr|Prof)\.?\s+[A-Z][a-z]+(?:\s+[A-Z][a-z]+)?`, 0.75),
				mustPattern("full_name", `\b[A-Z][a-z]+\s+[A-Z][a-z]+\b`, 0.55),
			},
		},
	}
}

// englishRecognizers extend the universal set with the English-specific
// entity types.
func englishRecognizers() []Recognizer {
	return append(universalRecognizers(), []Recognizer{
		{
			EntityType: "CRYPTO_WALLET",
			Patterns: []Pattern{
				mustPattern("bitcoin_address", `\b(?:[13][a-km-zA-HJ-NP-Z1-9]{25,34}|bc1[a-z0-9]{39,59})\b`, 0.8),
				mustPattern("ethereum_address", `\b0x[a-fA-F0-9]{40}\b`, 0.8),
			},
		},
		{
			EntityType: "MEDICAL_LICENSE",
			Patterns: []Pattern{
				mustPattern("medical_license", `\b(?:MD|DO|NP|PA|RN|LPN|DDS|DMD|PharmD)[\s\-]?\d{6,10}\b`, 0.7),
				mustPattern("dea_number", `\b[A-Z]{2}\d{7}\b`, 0.8),
			},
		},
		{
			EntityType: "PROFESSIONAL_LICENSE",
			Patterns: []Pattern{
				mustPattern("generic_license", `\b(?:LIC|LICENSE|PERMIT)[\s\-]?\d{6,12}\b`, 0.6),
				mustPattern("professional_license", `\b(?:CPA|PE|ESQ|JD|PhD)[\s\-]?\d{4,10}\b`, 0.7),
			},
		},
		{
			EntityType: "NRP",
			Patterns: []Pattern{
				mustPattern("nationality_indicator", `\b(?:nationality|citizen(?:ship)?)[\s:]+[A-Z][a-z]+(?:\s+[A-Z][a-z]+)*\b`, 0.6),
				mustPattern("religion_indicator", `\b(?:religion|religious|faith|belief)[\s:]+[A-Z][a-z]+(?:\s+[A-Z][a-z]+)*\b`, 0.6),
				mustPattern("political_indicator", `\b(?:political|party|affiliation)[\s:]+[A-Z][a-z]+(?:\s+[A-Z][a-z]+)*\b`, 0.6),
			},
		},
	}...)
}
