// Package zekku implements a generic, in-memory spatial index for 2-D
// geometry: a point quadtree (PointTree) and a bounding-box quadtree
// (BoxTree), both backed by a slab-allocator Pool that hands out stable
// integer handles.
//
// Neither tree is safe for concurrent use from multiple goroutines; callers
// needing that add their own lock around a tree, the same way they would
// around a plain map.
package zekku
