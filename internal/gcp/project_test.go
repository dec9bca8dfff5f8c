package gcp

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func respond(responses map[string]string) *MockRunner {
	return &MockRunner{
		GcloudFunc: func(_ context.Context, _ string, args ...string) (string, error) {
			key := strings.Join(args, " ")
			for prefix, out := range responses {
				if strings.HasPrefix(key, prefix) {
					return out, nil
				}
			}
			return "", errors.New("unexpected command: " + key)
		},
	}
}

func TestProjectNumber(t *testing.T) {
	t.Parallel()
	r := respond(map[string]string{"projects describe data-project-1": "123456"})

	num, err := ProjectNumber(context.Background(), r, "data-project-1")

	require.NoError(t, err)
	assert.Equal(t, "123456", num)
	assert.Empty(t, r.Calls()[0].ProjectID)
}

func TestLogSinkServiceAccount(t *testing.T) {
	t.Parallel()
	r := respond(map[string]string{
		"logging sinks describe audit-logs-to-bigquery": "serviceAccount:p123-456@gcp-sa-logging.iam.gserviceaccount.com",
	})

	sa, err := LogSinkServiceAccount(context.Background(), r, "p", LogSinkName)

	require.NoError(t, err)
	assert.Equal(t, "p123-456@gcp-sa-logging.iam.gserviceaccount.com", sa)
}

func TestInstanceInfo(t *testing.T) {
	t.Parallel()
	r := respond(map[string]string{"compute instances list": "vm-a\t111\nvm-b\t222\n"})

	got, err := InstanceInfo(context.Background(), r, "p")

	require.NoError(t, err)
	assert.Equal(t, []Instance{{Name: "vm-a", ID: "111"}, {Name: "vm-b", ID: "222"}}, got)
}

func TestInstanceInfo_Malformed(t *testing.T) {
	t.Parallel()
	r := respond(map[string]string{"compute instances list": "vm-a\n"})

	_, err := InstanceInfo(context.Background(), r, "p")
	require.Error(t, err)
}

func TestForsetiLookups(t *testing.T) {
	t.Parallel()
	r := respond(map[string]string{
		"iam service-accounts list": "forseti-server-gcp-abc@forseti-prj.iam.gserviceaccount.com",
		"storage buckets list":      "forseti-server-abc",
	})

	sa, err := ForsetiServerServiceAccount(context.Background(), r, "forseti-prj")
	require.NoError(t, err)
	assert.Equal(t, "forseti-server-gcp-abc@forseti-prj.iam.gserviceaccount.com", sa)

	bucket, err := ForsetiServerBucket(context.Background(), r, "forseti-prj")
	require.NoError(t, err)
	assert.Equal(t, "gs://forseti-server-abc", bucket)
}

func TestSingle(t *testing.T) {
	t.Parallel()

	_, err := single("", "thing")
	assert.EqualError(t, err, "thing not found")

	_, err = single("a\nb", "thing")
	assert.EqualError(t, err, "found 2 candidates for thing: a, b")
}

func TestLines(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []string{"a", "b c"}, Lines("\n a \n\nb c\n"))
	assert.Nil(t, Lines(""))
}
