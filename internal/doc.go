// internal is internal packages for carbonwatch.
//
// Packages that produce records depend on the store only through small interfaces like refresh.Reporter and alert.Reporter.
//
// The cwerr package and the testutil package are used by other packages.
package internal
