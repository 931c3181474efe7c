package memory_test

import (
	"testing"

	"github.com/aretw0/aria/pkg/adapters/memory"
	"github.com/aretw0/aria/pkg/ports"
)

func TestMemoryStore_Contract(t *testing.T) {
	ports.RunPreferencesStoreContract(t, memory.NewStore())
}
