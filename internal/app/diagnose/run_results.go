package diagnose

type runResults struct {
	Completed int
	StageMap  map[string]*StageResult

	order []string
}

func newRunResults() *runResults {
	return &runResults{
		Completed: 0,
		StageMap:  map[string]*StageResult{},
	}
}

func (rr *runResults) append(result *StageResult) {
	_, ok := rr.StageMap[result.Stage]
	if !ok {
		rr.order = append(rr.order, result.Stage)
	}

	if !result.Skipped {
		rr.Completed++
	}

	rr.StageMap[result.Stage] = result
}

func (rr *runResults) collapse() []*StageResult {
	collapsed := make([]*StageResult, 0, len(rr.order))

	for _, stage := range rr.order {
		collapsed = append(collapsed, rr.StageMap[stage])
	}

	return collapsed
}

func (rr *runResults) healthy() bool {
	if len(rr.order) == 0 {
		return false
	}

	for _, result := range rr.StageMap {
		if !result.Passed {
			return false
		}
	}

	return true
}
