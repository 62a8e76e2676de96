package cache

// Cache keys for result reads.

func ResultKey(id string) string {
	return "result:" + id
}

func StudentResultsKey(studentID string) string {
	return "results:student:" + studentID
}

const AllResultsPattern = "results:*"
