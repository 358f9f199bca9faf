package version

import "fmt"

var GitCommit string
var GitTag string
var UserAgent string

func init() {
	UserAgent = fmt.Sprintf("dbor/%s+%s", GitTag, GitCommit)
}
