package drift

// Bucket is the logical storage location for a validated pair of frames.
// Both frames of a run always share one bucket.
type Bucket string

const (
	BucketValid   Bucket = "valid"
	BucketInvalid Bucket = "invalid"
)

// Verdict is the immutable outcome of one validation run.
type Verdict struct {
	ValidationStatus bool       `yaml:"validation_status" json:"validation_status"`
	SchemaOKTrain    bool       `yaml:"schema_ok_train" json:"schema_ok_train"`
	SchemaOKTest     bool       `yaml:"schema_ok_test" json:"schema_ok_test"`
	IsDrift          bool       `yaml:"is_drift" json:"is_drift"`
	TrainDiff        SchemaDiff `yaml:"train_diff" json:"train_diff"`
	TestDiff         SchemaDiff `yaml:"test_diff" json:"test_diff"`
}

func newVerdict(trainOK, testOK, isDrift bool) Verdict {
	return Verdict{
		ValidationStatus: trainOK && testOK && !isDrift,
		SchemaOKTrain:    trainOK,
		SchemaOKTest:     testOK,
		IsDrift:          isDrift,
	}
}

func (v Verdict) Bucket() Bucket {
	if v.ValidationStatus {
		return BucketValid
	}
	return BucketInvalid
}

// Reasons lists why a verdict failed, for logs and notifications.
func (v Verdict) Reasons() []string {
	var out []string
	if !v.SchemaOKTrain {
		out = append(out, "train schema mismatch")
	}
	if !v.SchemaOKTest {
		out = append(out, "test schema mismatch")
	}
	if v.IsDrift {
		out = append(out, "distribution drift")
	}
	return out
}
