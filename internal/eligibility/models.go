// Package eligibility holds the donor-eligibility domain: the raw donor
// record, prediction results, pipeline error kinds and the decision rule.
// Feature preparation, scaling and scoring live in sub-packages.
package eligibility

// Blood pressure defaults used when a record omits the readings.
const (
	DefaultSystolic  = 120
	DefaultDiastolic = 80
)

// DonorRecord is one applicant's raw attributes as submitted for a check.
type DonorRecord struct {
	MonthsSinceLast        int
	TotalDonations         int
	Age                    int
	HemoglobinLevel        float64
	Weight                 float64
	Height                 float64
	HasChronicDisease      bool
	OnMedication           bool
	IsSmoker               bool
	IsAlcoholic            bool
	FitnessLevel           string
	Gender                 string
	BloodPressureSystolic  *int
	BloodPressureDiastolic *int
}

// Systolic returns the systolic reading or its default.
func (r DonorRecord) Systolic() int {
	if r.BloodPressureSystolic == nil {
		return DefaultSystolic
	}
	return *r.BloodPressureSystolic
}

// Diastolic returns the diastolic reading or its default.
func (r DonorRecord) Diastolic() int {
	if r.BloodPressureDiastolic == nil {
		return DefaultDiastolic
	}
	return *r.BloodPressureDiastolic
}

// Mode selects the response wording.
type Mode int

const (
	ModeSingle Mode = iota
	ModeBatch
)

func (m Mode) String() string {
	if m == ModeBatch {
		return "batch"
	}
	return "single"
}

// PredictionResult is the interpreted classifier output for one record.
type PredictionResult struct {
	Probability float64
	Label       bool
	Message     string
}

// BatchResult aggregates per-record results in input order.
type BatchResult struct {
	Predictions   []PredictionResult
	TotalDonors   int
	EligibleCount int
}

// Health reports whether serving artifacts are available.
type Health struct {
	Status       string
	ModelLoaded  bool
	ModelVersion string
}
