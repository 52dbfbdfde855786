package condense

import (
	"strings"
	"testing"
)

func TestNewCallbacks_UnknownNameFailsEagerly(t *testing.T) {
	_, err := NewCallbacks([]string{CallbackDiffusionHomology, "tangent_space"}, 8, DefaultCallbackConfig())
	if err == nil {
		t.Fatal("expected error for unknown callback name")
	}
	if !strings.Contains(err.Error(), "tangent_space") {
		t.Errorf("error %q does not name the offending callback", err)
	}
}

func TestNewCallbacks_PreservesOrder(t *testing.T) {
	names := []string{
		CallbackPersistentHomology,
		CallbackDiffusionHomology,
		CallbackReturnProbabilities,
	}
	cbs, err := NewCallbacks(names, 8, DefaultCallbackConfig())
	if err != nil {
		t.Fatalf("NewCallbacks: %v", err)
	}
	if len(cbs) != 3 {
		t.Fatalf("built %d callbacks, want 3", len(cbs))
	}
	if _, ok := cbs[0].(*PersistentHomology); !ok {
		t.Errorf("callback 0 is %T, want *PersistentHomology", cbs[0])
	}
	if _, ok := cbs[1].(*DiffusionHomology); !ok {
		t.Errorf("callback 1 is %T, want *DiffusionHomology", cbs[1])
	}
	if _, ok := cbs[2].(*ReturnProbabilities); !ok {
		t.Errorf("callback 2 is %T, want *ReturnProbabilities", cbs[2])
	}
}

func TestCallbackNames_Sorted(t *testing.T) {
	names := CallbackNames()
	if len(names) < 3 {
		t.Fatalf("registry has %d callbacks, want at least 3", len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Errorf("names not sorted: %v", names)
		}
	}
}
