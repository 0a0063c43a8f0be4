package worker

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/hayeah/collect/fstree"
	"github.com/hayeah/collect/internal/progress"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestTask_HandsOverResultOnce(t *testing.T) {
	assert := assert.New(t)

	built := fstree.NewDirectory()
	task := Start("scan", 0, discard, func(onVisit fstree.VisitFunc) (*fstree.Directory, error) {
		onVisit("a.jpg")
		onVisit("b.jpg")
		built.Set("a.jpg", fstree.File{})
		return built, nil
	})

	var events []progress.Event
	res := task.Wait(func(ev progress.Event) {
		events = append(events, ev)
	})

	assert.NoError(res.Err)
	assert.Same(built, res.Value)
	assert.Equal(2, res.Visited)
	assert.LessOrEqual(len(events), 2)
	assert.Equal("scan", task.Name())

	select {
	case <-task.Done():
		t.Fatal("result must be delivered only once")
	case <-time.After(10 * time.Millisecond):
	}
}

func TestTask_Error(t *testing.T) {
	assert := assert.New(t)

	boom := errors.New("boom")
	task := Start("copy", progress.DefaultInterval, discard, func(onVisit fstree.VisitFunc) (int, error) {
		return 2, boom
	})

	res := task.Wait(nil)
	assert.ErrorIs(res.Err, boom)
	assert.Equal(2, res.Value)
	assert.Equal(0, res.Visited)
}

func TestTask_DoesNotBlockOnUnreadProgress(t *testing.T) {
	assert := assert.New(t)

	task := Start("scan", 0, discard, func(onVisit fstree.VisitFunc) (int, error) {
		for i := 0; i < 1000; i++ {
			onVisit("x")
		}
		return 1000, nil
	})

	select {
	case res := <-task.Done():
		assert.Equal(1000, res.Visited)
	case <-time.After(5 * time.Second):
		t.Fatal("job blocked on progress nobody reads")
	}
}
