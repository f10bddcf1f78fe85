package faker

import (
	"fmt"
	mrand "math/rand"

	"github.com/piivault/piivault/internal/core"
)

type generatorFunc func(r *mrand.Rand) string

const hexDigits = "0123456789abcdef"

func randHex(r *mrand.Rand, n int) string {
	b := make([]byte, 2*n)
	for i := range b {
		b[i] = hexDigits[r.Intn(16)]
	}
	return string(b)
}

func randLetter(r *mrand.Rand, alphabet string) byte {
	return alphabet[r.Intn(len(alphabet))]
}

// builtinGenerators returns the per-entity-type generator table. Values are
// deliberately shaped like their entity type but never collide with the
// real-world pattern of a different type.
func builtinGenerators(language core.Language) map[string]generatorFunc {
	generators := map[string]generatorFunc{
		"PERSON": func(r *mrand.Rand) string {
			return fmt.Sprintf("Person_%s", randHex(r, 4))
		},
		"EMAIL_ADDRESS": func(r *mrand.Rand) string {
			return fmt.Sprintf("user%d@example.com", r.Intn(9999))
		},
		"PHONE_NUMBER": func(r *mrand.Rand) string {
			if language == core.German {
				return fmt.Sprintf("+49%04d%08d", r.Intn(9999), r.Intn(99999999))
			}
			return fmt.Sprintf("+1-555-%03d-%04d", r.Intn(900)+100, r.Intn(9000)+1000)
		},
		"CREDIT_CARD": func(r *mrand.Rand) string {
			return fmt.Sprintf("****-****-****-%04d", r.Intn(9000)+1000)
		},
		"IP_ADDRESS": func(r *mrand.Rand) string {
			return fmt.Sprintf("192.168.%d.%d", r.Intn(255), r.Intn(255))
		},
		"LOCATION": func(r *mrand.Rand) string {
			return fmt.Sprintf("City_%s", randHex(r, 3))
		},
		"URL": func(r *mrand.Rand) string {
			return fmt.Sprintf("https://example-%s.com", randHex(r, 4))
		},
		"DATE_TIME": func(r *mrand.Rand) string {
			return "YYYY-MM-DD HH:MM:SS"
		},
		"IBAN_CODE": func(r *mrand.Rand) string {
			if language == core.German {
				return fmt.Sprintf("DE%02d%016d", r.Intn(90)+10, r.Int63n(9999999999999999))
			}
			return fmt.Sprintf("GB%02dABCD%012d", r.Intn(90)+10, r.Int63n(999999999999))
		},
		"CRYPTO_WALLET": func(r *mrand.Rand) string {
			return fmt.Sprintf("1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa%s", randHex(r, 4))
		},
		"MEDICAL_LICENSE": func(r *mrand.Rand) string {
			return fmt.Sprintf("MD%07d", r.Intn(9999999))
		},
		"NRP": func(r *mrand.Rand) string {
			return fmt.Sprintf("GROUP_%s", randHex(r, 3))
		},
		"PROFESSIONAL_LICENSE": func(r *mrand.Rand) string {
			return fmt.Sprintf("LIC%06d", r.Intn(999999))
		},
	}

	if language == core.German {
		for entityType, gen := range germanGenerators() {
			generators[entityType] = gen
		}
	}

	return generators
}

// germanGenerators cover the country-specific identifier formats
func germanGenerators() map[string]generatorFunc {
	return map[string]generatorFunc{
		"DE_TAX_ID": func(r *mrand.Rand) string {
			return fmt.Sprintf("%011d", r.Int63n(90000000000)+10000000000)
		},
		"DE_PENSION_INSURANCE": func(r *mrand.Rand) string {
			return fmt.Sprintf("%02d%06dA%03d", r.Intn(90), r.Intn(999999), r.Intn(999))
		},
		"DE_HEALTH_INSURANCE": func(r *mrand.Rand) string {
			return fmt.Sprintf("A%010d", r.Int63n(9999999999))
		},
		"DE_VAT_ID": func(r *mrand.Rand) string {
			return fmt.Sprintf("DE%09d", r.Intn(999999999))
		},
		"DE_IBAN": func(r *mrand.Rand) string {
			return fmt.Sprintf("DE%02d%016d", r.Intn(90)+10, r.Int63n(9999999999999999))
		},
		"DE_PHONE_NUMBER": func(r *mrand.Rand) string {
			return fmt.Sprintf("+49%04d%08d", r.Intn(9999), r.Intn(99999999))
		},
		"DE_COMPANY_TAX": func(r *mrand.Rand) string {
			return fmt.Sprintf("%d/%d/%d", r.Intn(900)+100, r.Intn(900)+100, r.Intn(90000)+10000)
		},
		"DE_COMMERCIAL_REGISTER": func(r *mrand.Rand) string {
			return fmt.Sprintf("HR%c%d", randLetter(r, "BA"), r.Intn(99999)+1000)
		},
		"BIC_SWIFT": func(r *mrand.Rand) string {
			return fmt.Sprintf("DEUTDE2H%03d", r.Intn(999))
		},
		"DE_STREET_ADDRESS": func(r *mrand.Rand) string {
			return fmt.Sprintf("Musterstraße %d", r.Intn(999)+1)
		},
		"DE_ID_CARD": func(r *mrand.Rand) string {
			return fmt.Sprintf("%c%08d", randLetter(r, "ABCDEFGH"), r.Intn(99999999))
		},
		"DE_PASSPORT": func(r *mrand.Rand) string {
			return fmt.Sprintf("%c%c%07d", randLetter(r, "ABCDEFGH"), randLetter(r, "ABCDEFGH"), r.Intn(9999999))
		},
		"DE_DRIVING_LICENSE": func(r *mrand.Rand) string {
			if r.Intn(2) == 0 {
				return fmt.Sprintf("%011d", r.Int63n(99999999999))
			}
			return fmt.Sprintf("DE%08d", r.Intn(99999999))
		},
		"DE_RESIDENCE_PERMIT": func(r *mrand.Rand) string {
			return fmt.Sprintf("%c%09d%c%d", randLetter(r, "ABCDEFGH"), r.Intn(999999999), randLetter(r, "ABCDEFGH"), r.Intn(9))
		},
		"DE_BANK_ACCOUNT": func(r *mrand.Rand) string {
			return fmt.Sprintf("%010d", r.Int63n(9999999999))
		},
		"DE_SOCIAL_SECURITY": func(r *mrand.Rand) string {
			return fmt.Sprintf("%02d%06dA%03d", r.Intn(90), r.Intn(999999), r.Intn(999))
		},
		"DE_DATE_OF_BIRTH": func(r *mrand.Rand) string {
			return fmt.Sprintf("%02d.%02d.%d", r.Intn(28)+1, r.Intn(12)+1, r.Intn(50)+1950)
		},
		"DE_PERSON_NAME": func(r *mrand.Rand) string {
			return fmt.Sprintf("Person_%s", randHex(r, 3))
		},
		"DE_CREDIT_CARD": func(r *mrand.Rand) string {
			return fmt.Sprintf("****-****-****-%04d", r.Intn(9000)+1000)
		},
		"DE_CUSTOMER_ID": func(r *mrand.Rand) string {
			return fmt.Sprintf("CUST-%06d", r.Intn(999999))
		},
		"DE_EXPIRY_DATE": func(r *mrand.Rand) string {
			return fmt.Sprintf("%02d/%02d", r.Intn(12)+1, r.Intn(10)+25)
		},
		"DE_POSTAL_CODE": func(r *mrand.Rand) string {
			return fmt.Sprintf("%05d", r.Intn(90000)+10000)
		},
		"DE_STREET_NAME": func(r *mrand.Rand) string {
			suffixes := []string{"straße", "gasse", "weg", "platz"}
			return "Muster" + suffixes[r.Intn(len(suffixes))]
		},
	}
}
