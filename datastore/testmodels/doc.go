/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package testmodels holds sample record types used by tests and the
// recordctl command. Importing it registers their schemas.
package testmodels
