package nppes

import "strings"

// taxonomyRule maps a taxonomy description keyword to a provider type.
type taxonomyRule struct {
	keyword      string
	providerType string
}

// taxonomyRules is scanned in order and the first keyword contained in a
// taxonomy description wins, so broad individual keywords precede the
// organizational ones.
var taxonomyRules = []taxonomyRule{
	// Individual providers
	{"allopathic", "physician"},
	{"osteopathic", "physician"},
	{"physician", "physician"},
	{"internal medicine", "physician"},
	{"family medicine", "physician"},
	{"pediatrics", "physician"},
	{"psychiatry", "psychiatrist"},
	{"psychology", "psychologist"},
	{"nurse", "nurse"},
	{"nurse practitioner", "nurse_practitioner"},
	{"physician assistant", "physician_assistant"},
	{"physical therapist", "physical_therapist"},
	{"occupational therapist", "occupational_therapist"},
	{"speech", "speech_therapist"},
	{"dentist", "dentist"},
	{"dental", "dentist"},
	{"optometrist", "optometrist"},
	{"chiropractor", "chiropractor"},
	{"pharmacist", "pharmacist"},
	{"social worker", "social_worker"},
	{"dietitian", "dietitian"},
	{"nutritionist", "dietitian"},
	{"respiratory therapist", "respiratory_therapist"},
	{"radiologic", "radiologic_technologist"},
	{"medical laboratory", "clinical_laboratory_scientist"},
	{"audiologist", "audiologist"},
	{"massage therapist", "massage_therapist"},
	{"acupuncturist", "acupuncturist"},
	{"midwife", "midwife"},
	{"podiatrist", "podiatrist"},

	// Organizational providers
	{"hospital", "hospital"},
	{"clinic", "clinic"},
	{"nursing", "nursing_home"},
	{"rehabilitation", "rehabilitation_center"},
	{"mental health", "mental_health_facility"},
	{"pharmacy", "pharmacy"},
	{"laboratory", "laboratory"},
	{"medical equipment", "medical_equipment_supplier"},
	{"ambulance", "ambulance_service"},
	{"dialysis", "dialysis_center"},
	{"imaging", "imaging_center"},
	{"urgent care", "urgent_care"},
	{"surgery center", "surgery_center"},
	{"home health", "home_health_agency"},
	{"hospice", "hospice"},
	{"blood bank", "blood_bank"},
	{"organ procurement", "organ_procurement"},
}

// determineProviderType matches taxonomy descriptions against the keyword
// rules; unmatched records fall back by enumeration type.
func determineProviderType(enumerationType string, taxonomies []registryTaxonomy) string {
	for _, taxonomy := range taxonomies {
		desc := strings.ToLower(taxonomy.Desc)
		for _, rule := range taxonomyRules {
			if strings.Contains(desc, rule.keyword) {
				return rule.providerType
			}
		}
	}

	if enumerationType == EnumerationIndividual {
		return TypeOtherIndividual
	}
	return TypeOtherOrganizational
}
