package file

import (
	"github.com/BurntSushi/toml"

	"github.com/matzehuels/taskflow/pkg/tasks"
)

func decodeTOML(data []byte) ([]tasks.Task, error) {
	var doc tasks.Document
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc.Tasks, nil
}
