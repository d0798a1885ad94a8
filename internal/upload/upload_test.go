package upload

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/aws/aws-sdk-go/service/s3/s3manager/s3manageriface"

	"github.com/alexanderjulianmartinez/drift-gate/internal/config"
)

type fakeUploader struct {
	s3manageriface.UploaderAPI
	objects map[string]string
	err     error
}

func (f *fakeUploader) UploadWithContext(_ aws.Context, in *s3manager.UploadInput, _ ...func(*s3manager.Uploader)) (*s3manager.UploadOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.StringValue(in.Bucket)+"/"+aws.StringValue(in.Key)] = string(body)
	return &s3manager.UploadOutput{}, nil
}

func writeTree(t *testing.T) string {
	t.Helper()
	run := filepath.Join(t.TempDir(), "05-01-2024-08-00-00")
	files := map[string]string{
		"DataIngestion/ingested/train.csv":        "a\n1\n",
		"DataValidation/drift_report/report.yaml": "a: {}\n",
	}
	for rel, content := range files {
		p := filepath.Join(run, rel)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return run
}

func TestUploadDir(t *testing.T) {
	run := writeTree(t)
	fake := &fakeUploader{objects: map[string]string{}}
	u := &S3Uploader{api: fake, bucket: "ml-artifacts", prefix: "driftgate"}

	n, err := u.UploadDir(context.Background(), run)
	if err != nil {
		t.Fatalf("UploadDir: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 uploads, got %d", n)
	}
	var keys []string
	for k := range fake.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	want := []string{
		"ml-artifacts/driftgate/05-01-2024-08-00-00/DataIngestion/ingested/train.csv",
		"ml-artifacts/driftgate/05-01-2024-08-00-00/DataValidation/drift_report/report.yaml",
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("key %d: got %s, want %s", i, keys[i], want[i])
		}
	}
	if fake.objects[want[0]] != "a\n1\n" {
		t.Fatalf("unexpected body %q", fake.objects[want[0]])
	}
}

func TestUploadDirError(t *testing.T) {
	run := writeTree(t)
	boom := errors.New("access denied")
	u := &S3Uploader{api: &fakeUploader{objects: map[string]string{}, err: boom}, bucket: "b"}
	if _, err := u.UploadDir(context.Background(), run); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped upload error, got %v", err)
	}
}

func TestNewWithoutBucketIsNop(t *testing.T) {
	u, err := New(config.UploadConfig{})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := u.(Nop); !ok {
		t.Fatalf("expected Nop, got %T", u)
	}
}
