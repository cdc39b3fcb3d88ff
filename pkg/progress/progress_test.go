package progress

import "testing"

func TestBufferedBusRecordsOrder(t *testing.T) {
	bus := NewBufferedBus()
	id := RepoID{Index: 0, Display: "a"}

	bus.OnBatchStart(2)
	bus.OnRepoStart(id, Text("cloning"))
	bus.OnRepoSuccess(id, Styled("done", ColorSuccess))
	bus.OnBatchFinish()

	want := []string{"batch_start", "repo_start", "repo_success", "batch_finish"}
	if len(bus.Events) != len(want) {
		t.Fatalf("len(Events) = %d, want %d", len(bus.Events), len(want))
	}
	for i, k := range want {
		if bus.Events[i].Kind != k {
			t.Errorf("Events[%d].Kind = %q, want %q", i, bus.Events[i].Kind, k)
		}
	}
}

func TestNoopBusDoesNotPanic(t *testing.T) {
	var bus Bus = NoopBus{}
	id := RepoID{Index: 0, Display: "a"}
	bus.OnBatchStart(1)
	bus.OnRepoStart(id, Text("x"))
	bus.OnRepoUpdate(id, Text("x"))
	bus.OnRepoSuccess(id, Text("x"))
	bus.OnRepoError(id, Text("x"))
	bus.OnBatchFinish()
}

func TestPlainTextJoinsSpans(t *testing.T) {
	msg := StyleMessage{{Text: "a"}, {Text: "b", Color: ColorError}}
	if got := PlainText(msg); got != "ab" {
		t.Errorf("PlainText() = %q, want %q", got, "ab")
	}
}

func TestRenderUnstyledSpanPassesThrough(t *testing.T) {
	msg := Text("plain")
	if got := Render(msg); got != "plain" {
		t.Errorf("Render() = %q, want %q", got, "plain")
	}
}
