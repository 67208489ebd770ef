package cfa

import "math/big"

// IntegerType names one of the C standard's integer types. The driver only
// needs enough of the type system to bound literal values (cfacheck) and to
// spell a declaration (restorer); the full C type system is out of scope
// (spec.md §1) and lives in the upstream parser.
type IntegerType string

const (
	IntChar     IntegerType = "char"
	IntShort    IntegerType = "short"
	IntInt      IntegerType = "int"
	IntLong     IntegerType = "long"
	IntLongLong IntegerType = "long long"
)

// IntegerTypeInfo carries one integer type's width and signedness.
type IntegerTypeInfo struct {
	SizeInBytes int
	Signed      bool
}

// MachineModel describes the numeric-type sizes, signedness, and alignment
// assumed when the CFA was built, per spec.md §3. cfacheck uses it to bound
// integer literals; the restorer (C5) does not read it and spells restored
// declarations' default return type as plain `int`.
type MachineModel struct {
	Name        string // e.g. "Linux32", "Linux64"
	PointerSize int
	Types       map[IntegerType]IntegerTypeInfo
}

// Linux64 is the commonly used default MachineModel (LP64).
func Linux64() MachineModel {
	return MachineModel{
		Name:        "Linux64",
		PointerSize: 8,
		Types: map[IntegerType]IntegerTypeInfo{
			IntChar:     {SizeInBytes: 1, Signed: true},
			IntShort:    {SizeInBytes: 2, Signed: true},
			IntInt:      {SizeInBytes: 4, Signed: true},
			IntLong:     {SizeInBytes: 8, Signed: true},
			IntLongLong: {SizeInBytes: 8, Signed: true},
		},
	}
}

// Linux32 is the commonly used ILP32 MachineModel.
func Linux32() MachineModel {
	return MachineModel{
		Name:        "Linux32",
		PointerSize: 4,
		Types: map[IntegerType]IntegerTypeInfo{
			IntChar:     {SizeInBytes: 1, Signed: true},
			IntShort:    {SizeInBytes: 2, Signed: true},
			IntInt:      {SizeInBytes: 4, Signed: true},
			IntLong:     {SizeInBytes: 4, Signed: true},
			IntLongLong: {SizeInBytes: 8, Signed: true},
		},
	}
}

// Bounds returns the inclusive [min, max] range representable by t under m,
// honoring signedness. Unknown types fall back to a signed 32-bit int,
// matching a conservative upstream default.
func (m MachineModel) Bounds(t IntegerType) (min, max *big.Int) {
	info, ok := m.Types[t]
	if !ok {
		info = IntegerTypeInfo{SizeInBytes: 4, Signed: true}
	}
	bits := uint(info.SizeInBytes * 8)
	if info.Signed {
		max = new(big.Int).Lsh(big.NewInt(1), bits-1)
		max.Sub(max, big.NewInt(1))
		min = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), bits-1))
		return min, max
	}
	max = new(big.Int).Lsh(big.NewInt(1), bits)
	max.Sub(max, big.NewInt(1))
	min = big.NewInt(0)
	return min, max
}

// InRange reports whether v fits t's range under m.
func (m MachineModel) InRange(t IntegerType, v *big.Int) bool {
	min, max := m.Bounds(t)
	return v.Cmp(min) >= 0 && v.Cmp(max) <= 0
}
