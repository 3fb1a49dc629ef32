// Outfitter - Wardrobe Recommendation and Compatibility Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/outfitter

/*
Package provision obtains the compatibility model and keeps it loaded.

A Provisioner owns the active Handle. The first Obtain call loads a model;
later calls return the same Handle until a forced reload or an explicit
ReloadFromRegistry swaps in a new one. Readers always see either the old or
the new Handle, never a partially built one.

# Load Order

With registry_first precedence (the default) a load walks:

	UNLOADED -> REGISTRY_LOOKUP -> LOADED
	                            -> LOCAL_SEARCH -> LOADED | FAILED

A registry error or an empty stage is logged and the local candidates are
probed in order. local_first reverses the two sources. ReloadFromRegistry
never touches local files and keeps the previous Handle when it fails.

# Partial Loads

Checkpoints are applied non-strictly. When the fraction of expected keys
left missing exceeds the reconcile threshold, saved keys are remapped with
siamese.Reconcile and applied once more. Whatever remains missing keeps its
seeded initial value; LoadResult records the coverage and the warnings so
callers can judge a degraded model without reading logs.
*/
package provision
