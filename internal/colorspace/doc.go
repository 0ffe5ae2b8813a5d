// Package colorspace provides the color arithmetic used by the matching engine.
//
// Colors are carried as 8-bit RGB triples and can be converted losslessly to
// a packed 24-bit integer (r<<16 | g<<8 | b) and to a lowercase "#rrggbb"
// string. Derived coordinates (CIELAB and HSV) are computed on demand and are
// never cached.
//
// # Similarity Algorithms
//
// IsSimilar compares two colors under one of several algorithms:
//   - diff: sum of absolute channel differences (L1)
//   - rgb: Euclidean distance in RGB
//   - rgb_weighted: the weighted Delta-E distance over CIELAB (alias "rgb+")
//   - hs: Euclidean distance over normalized hue and saturation
//   - ciede2000: CIEDE2000 distance, in conventional Lab units
//
// The hs algorithm ignores HSV value, so two colors that differ
// only in brightness compare as identical. Unknown algorithm tags never match.
//
// # Thread Safety
//
// Every function in this package is pure and safe for concurrent use.
package colorspace
