// Package dcc locates and launches the authoring applications (Blender,
// Krita, Photoshop, PureRef, After Effects and friends) that open workfiles.
//
// Lookup order for a kind is the configured override, then a per-OS table
// of well-known install locations, then PATH. On WSL the Windows install
// locations are probed through /mnt/c and file arguments are translated to
// Windows paths before launch.
package dcc
