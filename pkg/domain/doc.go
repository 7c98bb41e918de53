/*
Package domain contains the value types shared by every part of Arbor.

It defines what a prediction program computes with and what it is fed, and is
kept free of I/O and of the tree representation itself.

# Key Entities

  - Constant: The tagged value produced by evaluation and embedded in leaf nodes
    (Float, Int, Category, Bool, String, Missing and the five array variants).
  - Variable / Row: One input record, as handed to a model at prediction time.
  - Signature: How many inputs a model takes, their types and optional names.
*/
package domain
