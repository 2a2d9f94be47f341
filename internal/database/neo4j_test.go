package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitStatements(t *testing.T) {
	script := `// seed
MATCH (n) DETACH DELETE n;

CREATE (:Location {id: 'A'});
  // trailing comment
CREATE (:Location {id: 'B'})
;
`
	assert.Equal(t, []string{
		"MATCH (n) DETACH DELETE n",
		"CREATE (:Location {id: 'A'})",
		"CREATE (:Location {id: 'B'})",
	}, SplitStatements(script))
}

func TestSplitStatementsEmpty(t *testing.T) {
	assert.Empty(t, SplitStatements("// nothing here\n\n"))
}
