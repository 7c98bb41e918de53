/*
Package codec implements the binary wire format of trees and models.

A node is its opcode byte followed by either a tagged constant (leaf kinds)
or its children in pre-order. Variable-arity kinds write their child count
as an unsigned varint first; fixed-arity kinds do not, the opcode implies
it.

Constants are a type tag byte and a payload:

	missing          nothing
	float            4 bytes, little-endian IEEE 754 binary32
	int, category    zigzag varint
	bool             one byte, 0 or 1
	string           bytes, NUL-terminated
	arrays           unsigned varint length, then tagged elements

A model is [name NUL][signature][code]. The signature is the input count
(unsigned varint), a flags byte (bit 0 names, bit 1 types, bit 2 names are
authoritative), then the names and the type tags when flagged.

Decoding never returns a partial tree: any error yields a *DecodeError and
nil.
*/
package codec
