// Package classindex generates Java sources that list all classes of a JAR
// which carry a given class level annotation.
//
// A generation run is described by a Target. Generate scans the archive once,
// collects the binary names of matching classes below the configured name
// prefix, sorts them and publishes the rendered source atomically, so a
// failed run never leaves a partial file behind. The output only depends on
// the archive contents and the Target, so repeated runs produce identical
// bytes.
//
// All failures are reported as one of *ArchiveNotFoundError,
// *ArchiveCorruptError or *OutputWriteError and are meant to abort the build.
package classindex
