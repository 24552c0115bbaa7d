// Package protocol defines the binary frames a live session streams to its
// client.
//
// A session first sends a FrameHTML with the serialized mounted tree, then
// one FramePatches after every update that changed the DOM. Patches address
// nodes by child-index path from the session's root container, in the tree
// as it is before the patch is applied; a client applies the patches of a
// frame in order.
//
// # Wire Format
//
//	┌─────────────┬──────────────┬───────────────────────────────┐
//	│ Frame Type  │ Flags        │ Payload Length                │
//	│ (1 byte)    │ (1 byte)     │ (4 bytes, big-endian)         │
//	└─────────────┴──────────────┴───────────────────────────────┘
//
// Integers inside payloads are unsigned varints; strings are a varint
// length followed by UTF-8 bytes.
//
// Patch payload:
//
//	count:varint  patch*
//	patch = op:byte path:(len:varint index:varint*) operands
//
//	InsertHTML  index:varint html:string   insert before child index of path
//	Remove      -                          remove the node at path
//	SetAttr     key:string value:string
//	RemoveAttr  key:string
package protocol
