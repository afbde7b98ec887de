/*
Package core holds types and functions shared by all packages of the
font transfer pipeline: application errors with error codes, and the
configuration keys with their defaults.

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package core
