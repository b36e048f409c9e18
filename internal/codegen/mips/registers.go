package mips

import (
	"fmt"
	"os"
)

// register names themselves live in internal/config (IntRegisters,
// FloatRegisters, and any .hulkc.yaml pool override) — this file only
// implements the allocation/eviction policy over whatever pool a
// Generator is constructed with.

// bank is a fixed pool of registers handed out to TAC temporaries for the
// lifetime of one function. A temp keeps its register until every free
// slot is exhausted, at which point the oldest-assigned busy register is
// evicted and reassigned — a plain FIFO, not liveness-aware, matching
// codegen.py's get_register: free_registers.pop(0), else
// busy_registers.pop(0).
type bank struct {
	assigned map[string]string
	free     []string
	busy     []string
	logEvict bool
}

func newBank(regs []string) *bank {
	free := make([]string, len(regs))
	copy(free, regs)
	return &bank{assigned: make(map[string]string), free: free}
}

// get returns temp's register, assigning one (from the free list, or by
// evicting the oldest busy register) the first time temp is seen.
func (b *bank) get(temp string) string {
	if reg, ok := b.assigned[temp]; ok {
		return reg
	}
	var reg string
	if len(b.free) > 0 {
		reg = b.free[0]
		b.free = b.free[1:]
	} else {
		reg = b.busy[0]
		b.busy = b.busy[1:]
		for t, r := range b.assigned {
			if r == reg {
				if b.logEvict {
					fmt.Fprintf(os.Stderr, "mips: evicting %s (held %s) for %s\n", reg, t, temp)
				}
				delete(b.assigned, t)
				break
			}
		}
	}
	b.assigned[temp] = reg
	b.busy = append(b.busy, reg)
	return reg
}
