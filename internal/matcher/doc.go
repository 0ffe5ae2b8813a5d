// Package matcher turns search descriptions into matches and matches into
// input actions.
//
// A Template describes something to look for in a captured frame:
//
//   - ImageTemplate: a template image, found by pyramid correlation
//   - ColorChainTemplate: an anchor color plus offset color checks
//   - ColorTemplate: a single color within a tolerance band
//   - TextTemplate: a string reported by an OCR provider
//
// Template.Match returns a Result: a RectMatch, a PointMatch or EmptyMatch.
// Not finding the target is never an error; it is an EmptyMatch.
//
// # Acting on Results
//
// Result.Act converts the match into one actuation coordinate with a
// PointGenerator and asks an Actuator to press there:
//
//	res, err := tmpl.Match(ctx, frame)
//	if err != nil {
//	    return err
//	}
//	if _, err := res.Act(ctx, device, 0, nil); err != nil {
//	    return err
//	}
//
// RectMatch defaults to NormalInRegion, which jitters the press around the
// region center the way a person would, and never leaves the region.
// PointMatch defaults to IdentityOffset. The actuator is passed on every call;
// results never hold on to one.
//
// # Descriptions
//
// FromDescription builds a Template from loosely typed key/value data, as
// found in YAML or JSON automation scripts, and LoadScript reads a whole file
// of named descriptions. All validation happens at construction: a template
// that was built successfully will not fail later because of its own
// parameters.
//
// # Thread Safety
//
// Templates are immutable after construction and safe to share. Image
// templates share decoded images through an imaging.ImageCache, which decodes
// each file at most once.
package matcher
