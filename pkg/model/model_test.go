package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/arbor/pkg/ast"
	"github.com/aretw0/arbor/pkg/domain"
)

const linearYAML = `
name: linear
inputs:
  - {name: x, type: continuous}
  - {name: y, type: continuous}
code: |
  ; two-class boundary
  (if (gt (add (mul (param 0) 0.9) (mul (param 1) -0.2)) 0.0) #1 #2)
`

func TestDefinition_Compile(t *testing.T) {
	def, err := ParseDefinition([]byte(linearYAML))
	require.NoError(t, err)

	m, err := def.Compile()
	require.NoError(t, err)
	assert.Equal(t, "linear", m.Name)
	assert.Equal(t, 2, m.Signature.Len())
	assert.Equal(t, []string{"x", "y"}, m.Signature.Names)
	assert.Equal(t, ast.If, m.Code.Kind())
}

func TestDefinition_RoundTrip(t *testing.T) {
	def, err := ParseDefinition([]byte(linearYAML))
	require.NoError(t, err)
	m, err := def.Compile()
	require.NoError(t, err)

	out, err := DefinitionOf(m).Marshal()
	require.NoError(t, err)

	again, err := ParseDefinition(out)
	require.NoError(t, err)
	m2, err := again.Compile()
	require.NoError(t, err)
	assert.True(t, ast.Equal(m.Code, m2.Code))
	assert.Equal(t, m.Signature, m2.Signature)
}

func TestDefinition_Errors(t *testing.T) {
	tests := map[string]string{
		"bad type":     "name: a\ninputs: [{type: blob}]\ncode: 1.0\n",
		"bad code":     "name: a\ninputs: []\ncode: (add 1)\n",
		"param range":  "name: a\ninputs: [{type: text}]\ncode: (param 1)\n",
		"unset local":  "name: a\ninputs: []\ncode: (getlocal 0)\n",
		"missing name": "inputs: []\ncode: 1.0\n",
	}
	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			def, err := ParseDefinition([]byte(src))
			require.NoError(t, err)
			_, err = def.Compile()
			assert.Error(t, err)
		})
	}
}

func TestModel_CloneAndSummary(t *testing.T) {
	sig := domain.NewSignature([]domain.InputType{domain.InputText}, nil)
	m := New("spam", sig, ast.MustParse(`(gt (term_frequency (param 0) "win") 0.1)`))
	require.NoError(t, m.Validate())

	c := m.Clone()
	assert.True(t, ast.Equal(m.Code, c.Code))
	assert.NotSame(t, m.Code, c.Code)

	s := m.Summarize()
	assert.Equal(t, []string{"p0"}, s.Inputs)
	assert.Equal(t, []string{"text"}, s.Types)
	assert.Equal(t, 5, s.Nodes)
}

func TestModel_ValidateLimits(t *testing.T) {
	tests := map[string]struct {
		code    string
		tooHigh bool
	}{
		"small loop":        {code: "(block (setlocal 0 (new_array 3 0)) (for_local 1 3 (array_at_pos_inc 0 (getlocal 1))) (getlocal 0))"},
		"huge slot":         {code: "(block (setlocal 2000000000 1.0) 1.0)", tooHigh: true},
		"huge array":        {code: "(block (setlocal 0 (new_array 2000000000 0)) 1.0)", tooHigh: true},
		"huge loop":         {code: "(block (for_local 0 2000000000 (nop)) 1.0)", tooHigh: true},
		"nested loops":      {code: "(block (for_local 0 10000 (for_local 1 10000 (nop))) 1.0)", tooHigh: true},
		"arrays in a loop":  {code: "(block (for_local 0 1000 (setlocal 1 (new_array 1000000 0))) 1.0)", tooHigh: true},
		"zero trip nesting": {code: "(block (for_local 0 0 (for_local 1 60000000 (nop))) 1.0)"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			m := New("m", domain.Signature{}, ast.MustParse(tt.code))
			err := m.Validate()
			if tt.tooHigh {
				assert.ErrorIs(t, err, ErrTooLarge)
				return
			}
			assert.NoError(t, err)
		})
	}
}
