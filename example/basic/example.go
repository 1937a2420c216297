package example

import (
	"github.com/sirupsen/logrus"

	"github.com/stellarstats/savewatch"
)

// ParseAll is the minimal library usage: one scan over a save directory,
// every save parsed on a small worker pool, results collected in ready
// order.
func ParseAll(root string) ([]savewatch.Result, error) {
	logger := logrus.StandardLogger()

	monitor := savewatch.NewSavePathMonitor(root, "", logger)
	files, err := monitor.Scan()
	if err != nil {
		return nil, err
	}
	monitor.MarkSeen(files)

	dispatcher := savewatch.NewDispatcher(4, logger)
	defer dispatcher.Teardown()

	var results []savewatch.Result
	for result := range dispatcher.Dispatch(files) {
		results = append(results, result)
	}
	return results, nil
}
