package repokind

import "testing"

func TestBuiltinKindsRegistered(t *testing.T) {
	model, ok := Resolve("model")
	if !ok || model.DiskPrefix != "" || model.JSONKindField != "model" {
		t.Fatalf("unexpected model metadata: %+v", model)
	}
	dataset, ok := Resolve("Dataset")
	if !ok || dataset.DiskPrefix != "datasets" || dataset.JSONKindField != "dataset" {
		t.Fatalf("unexpected dataset metadata: %+v", dataset)
	}
}

func TestResolveUnknownKind(t *testing.T) {
	if _, ok := Resolve("space"); ok {
		t.Fatalf("expected unregistered kind to miss")
	}
}

func TestKeysSorted(t *testing.T) {
	keys := Keys()
	if len(keys) != 2 || keys[0] != "dataset" || keys[1] != "model" {
		t.Fatalf("unexpected keys: %v", keys)
	}
}

func TestBasePrefix(t *testing.T) {
	prefix, err := BasePrefix(Model)
	if err != nil || prefix != "" {
		t.Fatalf("unexpected model prefix: %q, %v", prefix, err)
	}
	prefix, err = BasePrefix(Dataset)
	if err != nil || prefix != "datasets" {
		t.Fatalf("unexpected dataset prefix: %q, %v", prefix, err)
	}
}

func TestRegisterDuplicateFails(t *testing.T) {
	if err := Register(Metadata{Key: Model}); err == nil {
		t.Fatalf("expected duplicate registration to fail")
	}
}
