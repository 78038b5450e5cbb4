package model

// Event codes of the closed vocabulary.
const (
	CodeEnumeration     = "ENU" // baseline enumeration
	CodeBirth           = "BTH"
	CodeInMigration     = "IMG"
	CodeDeath           = "DTH"
	CodeOutMigration    = "OMG"
	CodeInternalOut     = "EXT" // internal out-migration
	CodeInternalIn      = "ENT" // internal in-migration
	CodeDelivery        = "DLV"
	CodeObservationEnd  = "OBE" // study closure
	CodeObservationLost = "OBL"
	CodeObservationStop = "OBS"
)

// Sex codes.
const (
	SexMale   = "m"
	SexFemale = "f"
)

// Vocabulary returns the full closed event-code vocabulary in canonical
// order. Transition matrices are indexed over this list even for codes
// unseen in a particular dataset.
func Vocabulary() []string {
	return []string{
		CodeEnumeration,
		CodeBirth,
		CodeInMigration,
		CodeDeath,
		CodeOutMigration,
		CodeInternalOut,
		CodeInternalIn,
		CodeDelivery,
		CodeObservationEnd,
		CodeObservationLost,
		CodeObservationStop,
	}
}

// EntryCodes returns the codes that open an individual's sequence.
func EntryCodes() []string {
	return []string{CodeEnumeration, CodeBirth, CodeInMigration}
}

// ClosingCodes returns the codes that terminate an individual's sequence.
func ClosingCodes() []string {
	return []string{CodeObservationEnd}
}

// Sexes returns the valid sex codes.
func Sexes() []string {
	return []string{SexMale, SexFemale}
}
