package main

import (
	"github.com/nicholasgasior/doc2md"
	"github.com/nicholasgasior/doc2md/internal/batch"
)

// engineAdapter exposes *doc2md.Engine through the narrow interface the
// batch runner consumes.
type engineAdapter struct {
	eng *doc2md.Engine
}

func newEngineAdapter() engineAdapter {
	return engineAdapter{eng: doc2md.New()}
}

func (a engineAdapter) ConvertFile(path string) (batch.Result, error) {
	res, err := a.eng.ConvertFile(path)
	if err != nil {
		return batch.Result{}, err
	}
	return batch.Result{Markdown: res.Markdown}, nil
}

func (a engineAdapter) Supported(ext string) bool {
	return a.eng.Supported(ext)
}
