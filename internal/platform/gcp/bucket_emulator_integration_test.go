package gcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/yungbote/onboarding-backend/internal/platform/logger"
	"github.com/yungbote/onboarding-backend/internal/platform/objectstore"
)

func TestPhotoBucketEmulatorDeletePrefix(t *testing.T) {
	if !strings.EqualFold(strings.TrimSpace(os.Getenv("ONB_RUN_GCS_EMULATOR_INTEGRATION")), "true") {
		t.Skip("set ONB_RUN_GCS_EMULATOR_INTEGRATION=true to run emulator integration tests")
	}
	emulatorHost := strings.TrimSpace(os.Getenv("STORAGE_EMULATOR_HOST"))
	if emulatorHost == "" {
		emulatorHost = "http://127.0.0.1:4443"
	}
	emulatorHost = strings.TrimRight(emulatorHost, "/")
	if !isEmulatorReachable(t, emulatorHost) {
		t.Skipf("storage emulator not reachable at %s", emulatorHost)
	}

	bucketName := fmt.Sprintf("onb-it-photos-%d", time.Now().UnixNano())
	createBucketIfMissing(t, emulatorHost, bucketName)

	ctx := context.Background()
	b, err := NewPhotoBucket(ctx, logger.Nop(), BucketConfig{
		Bucket:       bucketName,
		Mode:         StorageModeGCSEmulator,
		EmulatorHost: emulatorHost,
	})
	if err != nil {
		t.Fatalf("NewPhotoBucket: %v", err)
	}
	defer b.Close()

	if err := b.Ping(ctx); err != nil {
		t.Fatalf("Ping: %v", err)
	}

	prefix := "onboarding/s1/products/p1/photos/ph1"
	for _, key := range []string{prefix + ".jpg", prefix + "_thumb.jpg", "onboarding/s1/products/p1/photos/ph2.jpg"} {
		w := b.client.Bucket(bucketName).Object(key).NewWriter(ctx)
		if _, err := io.Copy(w, strings.NewReader("img")); err != nil {
			t.Fatalf("write %s: %v", key, err)
		}
		if err := w.Close(); err != nil {
			t.Fatalf("close %s: %v", key, err)
		}
	}

	n, err := b.DeletePrefix(ctx, prefix)
	if err != nil {
		t.Fatalf("DeletePrefix: %v", err)
	}
	if n != 2 {
		t.Fatalf("deleted: want=2 got=%d", n)
	}
	if _, err := b.DeletePrefix(ctx, prefix); !errors.Is(err, objectstore.ErrNotFound) {
		t.Fatalf("second DeletePrefix: want=ErrNotFound got=%v", err)
	}
	keys, err := b.listKeys(ctx, "onboarding/s1/")
	if err != nil {
		t.Fatalf("listKeys: %v", err)
	}
	if len(keys) != 1 {
		t.Fatalf("remaining keys: want=1 got=%v", keys)
	}
}

func isEmulatorReachable(t *testing.T, emulatorHost string) bool {
	t.Helper()
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(emulatorHost + "/storage/v1/b?project=local-dev")
	if err != nil {
		return false
	}
	_ = resp.Body.Close()
	return resp.StatusCode >= 200 && resp.StatusCode < 500
}

func createBucketIfMissing(t *testing.T, emulatorHost string, bucket string) {
	t.Helper()
	payload, err := json.Marshal(map[string]string{"name": bucket})
	if err != nil {
		t.Fatalf("json.Marshal(bucket): %v", err)
	}
	client := &http.Client{Timeout: 5 * time.Second}
	req, err := http.NewRequest(http.MethodPost, emulatorHost+"/storage/v1/b?project=local-dev", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("http.NewRequest(create bucket): %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("create bucket %q: %v", bucket, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated || resp.StatusCode == http.StatusConflict {
		return
	}
	body, _ := io.ReadAll(resp.Body)
	t.Fatalf("create bucket %q failed: status=%d body=%s", bucket, resp.StatusCode, strings.TrimSpace(string(body)))
}
